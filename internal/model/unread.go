package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// UnreadCounter represents the per-viewer unread badge for one
// conversation. Created lazily on first increment, reset to zero (never
// deleted) when the owner opens the conversation. The counter is a
// best-effort cache; the message log remains the source of truth.
type UnreadCounter struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"user_id"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversation_id"`
	Count          int64              `json:"count" bson:"count"`
}
