package model

import (
	"bytes"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation represents a chat conversation in MongoDB. Direct
// conversations hold exactly two participants and no name; group
// conversations are named and hold two or more.
type Conversation struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Participants  []primitive.ObjectID `json:"participants" bson:"participants"`
	IsGroup       bool                 `json:"isGroup" bson:"is_group"`
	Name          string               `json:"name,omitempty" bson:"name,omitempty"`
	LastMessageID *primitive.ObjectID  `json:"lastMessageId" bson:"last_message_id,omitempty"`
	CreatedBy     *primitive.ObjectID  `json:"createdBy" bson:"created_by,omitempty"`
	CreatedAt     time.Time            `json:"createdAt" bson:"created_at"`
}

// ConversationView is a conversation hydrated for one viewer. OtherUser is
// the second participant's profile for direct conversations and nil for
// groups; ParticipantProfiles is populated for groups only.
type ConversationView struct {
	Conversation        `bson:",inline"`
	OtherUser           *User  `json:"otherUser,omitempty"`
	ParticipantProfiles []User `json:"participantProfiles,omitempty"`
}

// CanonicalPair returns the two user ids in their canonical (sorted byte
// order) form. Direct-conversation lookup and storage both go through this,
// so the stored participant list is a stable key regardless of which side
// initiated the conversation.
func CanonicalPair(a, b primitive.ObjectID) []primitive.ObjectID {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return []primitive.ObjectID{a, b}
	}
	return []primitive.ObjectID{b, a}
}

// NewDirectConversation builds an unnamed two-party conversation with the
// participant pair canonicalized. Callers must not reorder Participants.
func NewDirectConversation(a, b primitive.ObjectID, now time.Time) Conversation {
	return Conversation{
		Participants: CanonicalPair(a, b),
		IsGroup:      false,
		CreatedAt:    now,
	}
}

// NewGroupConversation builds a named group conversation. The participant
// set is taken as given; validation (size, creator inclusion) is the
// service's concern.
func NewGroupConversation(name string, participants []primitive.ObjectID, createdBy primitive.ObjectID, now time.Time) Conversation {
	return Conversation{
		Participants: participants,
		IsGroup:      true,
		Name:         name,
		CreatedBy:    &createdBy,
		CreatedAt:    now,
	}
}

// HasParticipant reports whether the given user is a member of the
// conversation.
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not the given user. Only
// meaningful for direct conversations.
func (c *Conversation) OtherParticipant(userID primitive.ObjectID) (primitive.ObjectID, bool) {
	for _, p := range c.Participants {
		if p != userID {
			return p, true
		}
	}
	return primitive.NilObjectID, false
}
