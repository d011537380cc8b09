package service

import (
	"Parley/internal/apperr"
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requireParticipant loads a conversation and enforces that the user is a
// member. Every resource-scoped operation goes through this before touching
// anything else.
func requireParticipant(ctx context.Context, conversations repo.ConversationRepository, user *model.User, conversationID primitive.ObjectID) (*model.Conversation, error) {
	conversation, err := conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperr.NotFound("conversation not found")
	}
	if !conversation.HasParticipant(user.ID) {
		return nil, apperr.AccessDenied("not a participant of this conversation")
	}
	return conversation, nil
}
