package event

import (
	"encoding/json"
	"time"
)

const (
	// Server-to-client events, fanned out to conversation rooms.
	EventMessageNew      = "message:new"
	EventMessageDeleted  = "message:deleted"
	EventReactionToggled = "reaction:toggled"
	EventTyping          = "typing"
	EventPresence        = "presence"

	// Client-to-server: a transient typing hint rebroadcast to the room.
	// The store-backed typing endpoint stays the source of truth.
	EventClientTyping = "client_typing"
)

// WsEvent is the envelope every websocket frame carries.
type WsEvent struct {
	Event          string          `json:"event"`
	ConversationId string          `json:"conversationId,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Publisher is what the service layer uses to push events after a
// successful mutation. Delivery is best-effort; the store is authoritative.
type Publisher interface {
	// Publish delivers an event to everyone attached to a conversation.
	Publish(conversationID string, ev WsEvent)
	// Broadcast delivers an event to every connected client.
	Broadcast(ev WsEvent)
}

// New wraps a payload into an event envelope. A payload that fails to
// marshal produces an envelope with an empty payload rather than an error;
// push is best-effort.
func New(eventType, conversationID string, payload any) WsEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	return WsEvent{
		Event:          eventType,
		ConversationId: conversationID,
		Payload:        raw,
	}
}

type MessageNew struct {
	MessageId      string    `json:"messageId"`
	ConversationId string    `json:"conversationId"`
	SenderId       string    `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

type MessageDeleted struct {
	MessageId      string `json:"messageId"`
	ConversationId string `json:"conversationId"`
}

type ReactionToggled struct {
	MessageId      string `json:"messageId"`
	ConversationId string `json:"conversationId"`
	UserId         string `json:"userId"`
	Emoji          string `json:"emoji"`
	Added          bool   `json:"added"`
}

type Typing struct {
	ConversationId string `json:"conversationId"`
	UserId         string `json:"userId"`
	Name           string `json:"name"`
}

type Presence struct {
	UserId string `json:"userId"`
	Online bool   `json:"online"`
}
