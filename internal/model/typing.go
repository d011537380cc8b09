package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypingTTL is how long a typing marker stays live after the last
// keystroke. Expiry is evaluated lazily at read time; there is no sweeper.
const TypingTTL = 3 * time.Second

// TypingMarker represents a short-lived "user is typing" signal, one
// document per (conversation, user), upserted on each keystroke.
type TypingMarker struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversation_id"`
	UserID         primitive.ObjectID `json:"userId" bson:"user_id"`
	ExpiresAt      time.Time          `json:"expiresAt" bson:"expires_at"`
}
