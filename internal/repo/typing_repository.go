package repo

import (
	"Parley/internal/db"
	"Parley/internal/model"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type TypingRepository interface {
	// Upsert refreshes this user's typing expiry for the conversation.
	// Stale rows are never swept; readers filter them out.
	Upsert(ctx context.Context, conversationID, userID primitive.ObjectID, expiresAt time.Time) error
	// FindActive returns markers whose expiry is still in the future as of
	// now.
	FindActive(ctx context.Context, conversationID primitive.ObjectID, now time.Time) ([]model.TypingMarker, error)
}

type typingRepository struct {
	con       *mongo.Database
	mongoRepo *db.Repository[model.TypingMarker]
	logger    *zap.Logger
}

func NewTypingRepository(con *mongo.Database, repo *db.Repository[model.TypingMarker], logger *zap.Logger) TypingRepository {
	return &typingRepository{
		con:       con,
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *typingRepository) Upsert(ctx context.Context, conversationID, userID primitive.ObjectID, expiresAt time.Time) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().
		ObjectID("conversation_id", conversationID).
		ObjectID("user_id", userID).
		Build()

	_, err := r.mongoRepo.Upsert(ctx, filter, bson.M{"$set": bson.M{"expires_at": expiresAt}})
	if err != nil {
		r.logger.Error("typing upsert failed",
			zap.String("conversation_id", conversationID.Hex()),
			zap.Error(err),
		)
		return fmt.Errorf("upsert typing marker: %w", err)
	}
	return nil
}

func (r *typingRepository) FindActive(ctx context.Context, conversationID primitive.ObjectID, now time.Time) ([]model.TypingMarker, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		ObjectID("conversation_id", conversationID).
		Gt("expires_at", now).
		Build()

	markers, err := r.mongoRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find typing markers: %w", err)
	}
	return markers, nil
}
