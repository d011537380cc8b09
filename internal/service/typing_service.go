package service

import (
	"Parley/internal/event"
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TypingService interface {
	// SetTyping refreshes the caller's typing marker to now + TypingTTL.
	SetTyping(ctx context.Context, user *model.User, conversationID primitive.ObjectID) error
	// Indicator returns the names of everyone else currently typing,
	// joined with English list grammar. Empty string means nobody.
	Indicator(ctx context.Context, user *model.User, conversationID primitive.ObjectID) (string, error)
}

type typingService struct {
	typing        repo.TypingRepository
	conversations repo.ConversationRepository
	users         repo.UserRepository
	events        event.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewTypingService(typing repo.TypingRepository, conversations repo.ConversationRepository, users repo.UserRepository, events event.Publisher, logger *zap.Logger) TypingService {
	return &typingService{
		typing:        typing,
		conversations: conversations,
		users:         users,
		events:        events,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *typingService) SetTyping(ctx context.Context, user *model.User, conversationID primitive.ObjectID) error {
	if _, err := requireParticipant(ctx, s.conversations, user, conversationID); err != nil {
		return err
	}

	expiresAt := s.now().Add(model.TypingTTL)
	if err := s.typing.Upsert(ctx, conversationID, user.ID, expiresAt); err != nil {
		return err
	}

	s.events.Publish(conversationID.Hex(), event.New(event.EventTyping, conversationID.Hex(), event.Typing{
		ConversationId: conversationID.Hex(),
		UserId:         user.ID.Hex(),
		Name:           user.Name,
	}))
	return nil
}

func (s *typingService) Indicator(ctx context.Context, user *model.User, conversationID primitive.ObjectID) (string, error) {
	if _, err := requireParticipant(ctx, s.conversations, user, conversationID); err != nil {
		return "", err
	}

	markers, err := s.typing.FindActive(ctx, conversationID, s.now())
	if err != nil {
		return "", err
	}

	markers = Filter(markers, func(m model.TypingMarker) bool {
		return m.UserID != user.ID
	})
	if len(markers) == 0 {
		return "", nil
	}

	ids := make([]primitive.ObjectID, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, m.UserID)
	}
	profiles, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	nameByID := make(map[primitive.ObjectID]string, len(profiles))
	for _, p := range profiles {
		nameByID[p.ID] = p.Name
	}

	names := make([]string, 0, len(markers))
	for _, m := range markers {
		if name, ok := nameByID[m.UserID]; ok {
			names = append(names, name)
		}
	}
	return formatTypingNames(names), nil
}

// formatTypingNames joins typing users with English list grammar:
// "A", "A and B", "A, B and N more".
func formatTypingNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return fmt.Sprintf("%s and %d more", strings.Join(names[:2], ", "), len(names)-2)
	}
}
