package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupportedEmojis is the fixed reaction allow-list. Toggling any other
// emoji fails validation.
var SupportedEmojis = []string{"👍", "❤️", "😂", "😮", "😢"}

// IsSupportedEmoji reports whether the emoji is in the allow-list.
func IsSupportedEmoji(emoji string) bool {
	for _, e := range SupportedEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}

// Reaction represents one user's emoji reaction on a message. At most one
// document exists per (message, user, emoji); toggling inserts or removes
// the row.
type Reaction struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MessageID primitive.ObjectID `json:"messageId" bson:"message_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	Emoji     string             `json:"emoji" bson:"emoji"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}
