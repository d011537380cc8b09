package repo

import (
	"Parley/internal/db"
	"Parley/internal/model"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Unread counters are incremented inside the message-send transaction (see
// MessageRepository.Send); this repository owns the read and reset sides.
type UnreadRepository interface {
	// Reset zeroes the counter if the row exists. A never-visited
	// conversation has no row and resetting it is a no-op, not an error.
	Reset(ctx context.Context, userID, conversationID primitive.ObjectID) error
	FindForUser(ctx context.Context, userID primitive.ObjectID) ([]model.UnreadCounter, error)
}

type unreadRepository struct {
	con       *mongo.Database
	mongoRepo *db.Repository[model.UnreadCounter]
	logger    *zap.Logger
}

func NewUnreadRepository(con *mongo.Database, repo *db.Repository[model.UnreadCounter], logger *zap.Logger) UnreadRepository {
	return &unreadRepository{
		con:       con,
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *unreadRepository) Reset(ctx context.Context, userID, conversationID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().
		ObjectID("user_id", userID).
		ObjectID("conversation_id", conversationID).
		Build()

	_, err := r.mongoRepo.Update(ctx, filter, bson.M{"count": 0})
	if err != nil {
		r.logger.Error("unread reset failed",
			zap.String("user_id", userID.Hex()),
			zap.String("conversation_id", conversationID.Hex()),
			zap.Error(err),
		)
		return fmt.Errorf("reset unread count: %w", err)
	}
	return nil
}

func (r *unreadRepository) FindForUser(ctx context.Context, userID primitive.ObjectID) ([]model.UnreadCounter, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	counters, err := r.mongoRepo.FindAll(ctx, db.NewFilter().ObjectID("user_id", userID).Build())
	if err != nil {
		return nil, fmt.Errorf("find unread counters: %w", err)
	}
	return counters, nil
}
