package service

import (
	"Parley/internal/apperr"
	"Parley/internal/event"
	"Parley/internal/metrics"
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReactionService interface {
	// Toggle adds the (message, user, emoji) reaction if absent, removes
	// it if present. Returns true when it was added.
	Toggle(ctx context.Context, user *model.User, messageID primitive.ObjectID, emoji string) (bool, error)
	ListByMessage(ctx context.Context, user *model.User, messageID primitive.ObjectID) ([]model.Reaction, error)
}

type reactionService struct {
	reactions     repo.ReactionRepository
	messages      repo.MessageRepository
	conversations repo.ConversationRepository
	events        event.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewReactionService(reactions repo.ReactionRepository, messages repo.MessageRepository, conversations repo.ConversationRepository, events event.Publisher, logger *zap.Logger) ReactionService {
	return &reactionService{
		reactions:     reactions,
		messages:      messages,
		conversations: conversations,
		events:        events,
		logger:        logger,
		now:           time.Now,
	}
}

// requireMessage resolves a message and enforces that the user belongs to
// its conversation.
func (s *reactionService) requireMessage(ctx context.Context, user *model.User, messageID primitive.ObjectID) (*model.Message, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, apperr.NotFound("message not found")
	}
	if _, err := requireParticipant(ctx, s.conversations, user, msg.ConversationID); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *reactionService) Toggle(ctx context.Context, user *model.User, messageID primitive.ObjectID, emoji string) (bool, error) {
	if !model.IsSupportedEmoji(emoji) {
		return false, apperr.Validation("unsupported emoji")
	}

	msg, err := s.requireMessage(ctx, user, messageID)
	if err != nil {
		return false, err
	}

	added, err := s.reactions.Toggle(ctx, messageID, user.ID, emoji, s.now())
	if err != nil {
		return false, err
	}

	outcome := "removed"
	if added {
		outcome = "added"
	}
	metrics.ReactionsToggled.WithLabelValues(outcome).Inc()

	s.events.Publish(msg.ConversationID.Hex(), event.New(event.EventReactionToggled, msg.ConversationID.Hex(), event.ReactionToggled{
		MessageId:      messageID.Hex(),
		ConversationId: msg.ConversationID.Hex(),
		UserId:         user.ID.Hex(),
		Emoji:          emoji,
		Added:          added,
	}))
	return added, nil
}

func (s *reactionService) ListByMessage(ctx context.Context, user *model.User, messageID primitive.ObjectID) ([]model.Reaction, error) {
	if _, err := s.requireMessage(ctx, user, messageID); err != nil {
		return nil, err
	}
	return s.reactions.FindByMessage(ctx, messageID)
}
