package service

import (
	"Parley/internal/apperr"
	"Parley/internal/metrics"
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ConversationService interface {
	// ResolveDirect finds or creates the one non-group conversation for
	// the (current, other) pair. Idempotent and order-independent: both
	// sides resolve to the same conversation.
	ResolveDirect(ctx context.Context, current *model.User, otherUserID primitive.ObjectID) (*model.Conversation, error)
	// CreateGroup always inserts a fresh conversation; groups are never
	// deduplicated.
	CreateGroup(ctx context.Context, current *model.User, participantIDs []primitive.ObjectID, name string) (*model.Conversation, error)
	GetByID(ctx context.Context, user *model.User, conversationID primitive.ObjectID) (*model.ConversationView, error)
	List(ctx context.Context, user *model.User) ([]model.ConversationView, error)
}

type conversationService struct {
	conversations repo.ConversationRepository
	users         repo.UserRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewConversationService(conversations repo.ConversationRepository, users repo.UserRepository, logger *zap.Logger) ConversationService {
	return &conversationService{
		conversations: conversations,
		users:         users,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *conversationService) ResolveDirect(ctx context.Context, current *model.User, otherUserID primitive.ObjectID) (*model.Conversation, error) {
	other, err := s.users.FindByID(ctx, otherUserID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, apperr.NotFound("other user not found")
	}

	pair := model.CanonicalPair(current.ID, otherUserID)

	existing, err := s.conversations.FindDirectByPair(ctx, pair)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := model.NewDirectConversation(current.ID, otherUserID, s.now())
	id, err := s.conversations.Insert(ctx, conversation)
	if err != nil {
		// A concurrent resolve for the same pair won the insert; return
		// the winner so both callers land in one conversation.
		if errors.Is(err, repo.ErrDuplicate) {
			winner, findErr := s.conversations.FindDirectByPair(ctx, pair)
			if findErr != nil {
				return nil, findErr
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, err
	}
	conversation.ID = id

	metrics.ConversationsCreated.WithLabelValues("direct").Inc()
	return &conversation, nil
}

func (s *conversationService) CreateGroup(ctx context.Context, current *model.User, participantIDs []primitive.ObjectID, name string) (*model.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}

	// Dedupe and force-include the creator.
	seen := map[primitive.ObjectID]struct{}{current.ID: {}}
	participants := []primitive.ObjectID{current.ID}
	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	if len(participants) < 2 {
		return nil, apperr.Validation("a group needs at least 2 participants")
	}

	found, err := s.users.FindManyByIDs(ctx, participants)
	if err != nil {
		return nil, err
	}
	if len(found) != len(participants) {
		return nil, apperr.NotFound("participant not found")
	}

	conversation := model.NewGroupConversation(name, participants, current.ID, s.now())
	id, err := s.conversations.Insert(ctx, conversation)
	if err != nil {
		return nil, err
	}
	conversation.ID = id

	metrics.ConversationsCreated.WithLabelValues("group").Inc()
	s.logger.Info("group created",
		zap.String("conversation_id", id.Hex()),
		zap.Int("participants_count", len(participants)),
	)
	return &conversation, nil
}

func (s *conversationService) GetByID(ctx context.Context, user *model.User, conversationID primitive.ObjectID) (*model.ConversationView, error) {
	conversation, err := requireParticipant(ctx, s.conversations, user, conversationID)
	if err != nil {
		return nil, err
	}

	view := model.ConversationView{Conversation: *conversation}

	if conversation.IsGroup {
		profiles, err := s.users.FindManyByIDs(ctx, conversation.Participants)
		if err != nil {
			return nil, err
		}
		view.ParticipantProfiles = profiles
		return &view, nil
	}

	otherID, ok := conversation.OtherParticipant(user.ID)
	if !ok {
		return &view, nil
	}
	other, err := s.users.FindByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	view.OtherUser = other
	return &view, nil
}

func (s *conversationService) List(ctx context.Context, user *model.User) ([]model.ConversationView, error) {
	conversations, err := s.conversations.FindAllForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Batch-hydrate the other side of every direct conversation.
	var otherIDs []primitive.ObjectID
	for _, c := range conversations {
		if c.IsGroup {
			continue
		}
		if otherID, ok := c.OtherParticipant(user.ID); ok {
			otherIDs = append(otherIDs, otherID)
		}
	}
	profiles, err := s.users.FindManyByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	profileByID := make(map[primitive.ObjectID]model.User, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	views := make([]model.ConversationView, 0, len(conversations))
	for _, c := range conversations {
		view := model.ConversationView{Conversation: c}
		if !c.IsGroup {
			if otherID, ok := c.OtherParticipant(user.ID); ok {
				if profile, ok := profileByID[otherID]; ok {
					p := profile
					view.OtherUser = &p
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}
