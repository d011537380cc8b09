package service

import (
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UnreadService interface {
	// Reset zeroes the caller's counter when they open a conversation.
	// No-op for a conversation with no counter row yet.
	Reset(ctx context.Context, user *model.User, conversationID primitive.ObjectID) error
	ListForUser(ctx context.Context, user *model.User) ([]model.UnreadCounter, error)
}

type unreadService struct {
	unread        repo.UnreadRepository
	conversations repo.ConversationRepository
	logger        *zap.Logger
}

func NewUnreadService(unread repo.UnreadRepository, conversations repo.ConversationRepository, logger *zap.Logger) UnreadService {
	return &unreadService{
		unread:        unread,
		conversations: conversations,
		logger:        logger,
	}
}

func (s *unreadService) Reset(ctx context.Context, user *model.User, conversationID primitive.ObjectID) error {
	if _, err := requireParticipant(ctx, s.conversations, user, conversationID); err != nil {
		return err
	}
	return s.unread.Reset(ctx, user.ID, conversationID)
}

func (s *unreadService) ListForUser(ctx context.Context, user *model.User) ([]model.UnreadCounter, error) {
	return s.unread.FindForUser(ctx, user.ID)
}
