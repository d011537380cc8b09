package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a chat message in MongoDB. Messages are append-only:
// the only mutable field is Deleted, and deleted rows are retained so the
// presentation layer can render a placeholder.
type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversation_id"`
	SenderID       primitive.ObjectID `json:"senderId" bson:"sender_id"`
	Content        string             `json:"content" bson:"content"`
	Deleted        bool               `json:"deleted" bson:"deleted"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
}
