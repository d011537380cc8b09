package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user document in MongoDB. Users are created on first
// login (upsert by the identity provider id) and never deleted.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ClerkID  string             `json:"clerkId" bson:"clerk_id"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	ImageURL string             `json:"imageUrl" bson:"image_url"`
	Online   bool               `json:"online" bson:"online"`
	LastSeen time.Time          `json:"lastSeen" bson:"last_seen"`
}

// AnnotatedUser is a user as seen from another user's contact list: the
// resolved direct conversation (if one exists) and the viewer's unread count
// for it.
type AnnotatedUser struct {
	User           `bson:",inline"`
	ConversationID *primitive.ObjectID `json:"conversationId"`
	UnreadCount    int64               `json:"unreadCount"`
}
