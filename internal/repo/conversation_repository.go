package repo

import (
	"Parley/internal/db"
	"Parley/internal/model"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ConversationRepository interface {
	Insert(ctx context.Context, conversation model.Conversation) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Conversation, error)
	// FindDirectByPair looks up the non-group conversation whose stored
	// participant list equals the canonical pair exactly. At most one such
	// document exists per pair.
	FindDirectByPair(ctx context.Context, pair []primitive.ObjectID) (*model.Conversation, error)
	FindAllForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Conversation, error)
	FindDirectForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Conversation, error)
}

type conversationRepository struct {
	con       *mongo.Database
	mongoRepo *db.Repository[model.Conversation]
	logger    *zap.Logger
}

func NewConversationRepository(con *mongo.Database, repo *db.Repository[model.Conversation], logger *zap.Logger) ConversationRepository {
	return &conversationRepository{
		con:       con,
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *conversationRepository) Insert(ctx context.Context, conversation model.Conversation) (primitive.ObjectID, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	id, err := r.mongoRepo.Create(ctx, conversation)
	if err != nil {
		// The unique pair index rejects the second of two racing direct
		// inserts; callers resolve to the winner.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("insert conversation: %w", ErrDuplicate)
		}
		r.logger.Error("conversation insert failed", zap.Error(err))
		return primitive.NilObjectID, fmt.Errorf("insert conversation: %w", err)
	}

	r.logger.Debug("conversation created",
		zap.String("conversation_id", id.Hex()),
		zap.Bool("is_group", conversation.IsGroup),
		zap.Int("participants_count", len(conversation.Participants)),
	)
	return id, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	conversation, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return conversation, nil
}

func (r *conversationRepository) FindDirectByPair(ctx context.Context, pair []primitive.ObjectID) (*model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("is_group", false).
		Eq("participants", pair).
		Build()

	conversation, err := r.mongoRepo.FindOne(ctx, filter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find direct conversation: %w", err)
	}
	return conversation, nil
}

func (r *conversationRepository) FindAllForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().ObjectID("participants", userID).Build()
	conversations, err := r.mongoRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find conversations for user: %w", err)
	}
	return conversations, nil
}

func (r *conversationRepository) FindDirectForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("is_group", false).
		ObjectID("participants", userID).
		Build()

	conversations, err := r.mongoRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find direct conversations for user: %w", err)
	}
	return conversations, nil
}
