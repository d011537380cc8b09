package service

import (
	"Parley/internal/apperr"
	"Parley/internal/event"
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService interface {
	// Sync upserts the caller's user record on login and marks them online.
	Sync(ctx context.Context, clerkID, name, email, imageURL string) (*model.User, error)
	// Me resolves the identity subject to a user record, nil when the
	// subject has never synced.
	Me(ctx context.Context, clerkID string) (*model.User, error)
	// RequireBySubject is Me with a not-found failure instead of nil, used
	// by every authenticated endpoint.
	RequireBySubject(ctx context.Context, clerkID string) (*model.User, error)
	UpdateStatus(ctx context.Context, user *model.User, online bool) error
	// ListOthers returns every user except the caller, annotated with the
	// resolved direct conversation and the caller's unread count for it.
	ListOthers(ctx context.Context, user *model.User) ([]model.AnnotatedUser, error)
}

type userService struct {
	users         repo.UserRepository
	conversations repo.ConversationRepository
	unread        repo.UnreadRepository
	events        event.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewUserService(users repo.UserRepository, conversations repo.ConversationRepository, unread repo.UnreadRepository, events event.Publisher, logger *zap.Logger) UserService {
	return &userService{
		users:         users,
		conversations: conversations,
		unread:        unread,
		events:        events,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *userService) Sync(ctx context.Context, clerkID, name, email, imageURL string) (*model.User, error) {
	if clerkID == "" {
		return nil, apperr.Validation("clerkId is required")
	}

	user, err := s.users.Sync(ctx, clerkID, name, email, imageURL, s.now())
	if err != nil {
		return nil, err
	}

	s.events.Broadcast(event.New(event.EventPresence, "", event.Presence{
		UserId: user.ID.Hex(),
		Online: true,
	}))
	return user, nil
}

func (s *userService) Me(ctx context.Context, clerkID string) (*model.User, error) {
	return s.users.FindBySubject(ctx, clerkID)
}

func (s *userService) RequireBySubject(ctx context.Context, clerkID string) (*model.User, error) {
	user, err := s.users.FindBySubject(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, user *model.User, online bool) error {
	if err := s.users.SetPresence(ctx, user.ID, online, s.now()); err != nil {
		return err
	}

	s.events.Broadcast(event.New(event.EventPresence, "", event.Presence{
		UserId: user.ID.Hex(),
		Online: online,
	}))
	return nil
}

func (s *userService) ListOthers(ctx context.Context, user *model.User) ([]model.AnnotatedUser, error) {
	others, err := s.users.FindOthers(ctx, user.ClerkID)
	if err != nil {
		return nil, err
	}

	directs, err := s.conversations.FindDirectForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	counters, err := s.unread.FindForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// conversation per other participant, unread count per conversation
	conversationByOther := make(map[primitive.ObjectID]primitive.ObjectID, len(directs))
	for _, c := range directs {
		if otherID, ok := c.OtherParticipant(user.ID); ok {
			conversationByOther[otherID] = c.ID
		}
	}
	countByConversation := make(map[primitive.ObjectID]int64, len(counters))
	for _, u := range counters {
		countByConversation[u.ConversationID] = u.Count
	}

	annotated := make([]model.AnnotatedUser, 0, len(others))
	for _, other := range others {
		entry := model.AnnotatedUser{User: other}
		if conversationID, ok := conversationByOther[other.ID]; ok {
			id := conversationID
			entry.ConversationID = &id
			entry.UnreadCount = countByConversation[conversationID]
		}
		annotated = append(annotated, entry)
	}
	return annotated, nil
}
