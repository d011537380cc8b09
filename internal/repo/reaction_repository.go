package repo

import (
	"Parley/internal/db"
	"Parley/internal/model"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ReactionRepository interface {
	// Toggle removes the (message, user, emoji) row if present, otherwise
	// inserts it. Returns true when the reaction was added.
	Toggle(ctx context.Context, messageID, userID primitive.ObjectID, emoji string, now time.Time) (bool, error)
	FindByMessage(ctx context.Context, messageID primitive.ObjectID) ([]model.Reaction, error)
}

type reactionRepository struct {
	con       *mongo.Database
	mongoRepo *db.Repository[model.Reaction]
	logger    *zap.Logger
}

func NewReactionRepository(con *mongo.Database, repo *db.Repository[model.Reaction], logger *zap.Logger) ReactionRepository {
	return &reactionRepository{
		con:       con,
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *reactionRepository) Toggle(ctx context.Context, messageID, userID primitive.ObjectID, emoji string, now time.Time) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().
		ObjectID("message_id", messageID).
		ObjectID("user_id", userID).
		Eq("emoji", emoji).
		Build()

	// Delete-if-present keeps the uniqueness invariant without a separate
	// existence read.
	deleted, err := r.mongoRepo.Delete(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("toggle reaction: %w", err)
	}
	if deleted.DeletedCount > 0 {
		r.logger.Debug("reaction removed",
			zap.String("message_id", messageID.Hex()),
			zap.String("emoji", emoji),
		)
		return false, nil
	}

	_, err = r.mongoRepo.Create(ctx, model.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: now,
	})
	if err != nil {
		// A concurrent toggle of the same row won the insert (double-click);
		// the unique index guarantees the row exists exactly once, so
		// report it as added.
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, fmt.Errorf("toggle reaction: %w", err)
	}

	r.logger.Debug("reaction added",
		zap.String("message_id", messageID.Hex()),
		zap.String("emoji", emoji),
	)
	return true, nil
}

func (r *reactionRepository) FindByMessage(ctx context.Context, messageID primitive.ObjectID) ([]model.Reaction, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	reactions, err := r.mongoRepo.FindAll(ctx, db.NewFilter().ObjectID("message_id", messageID).Build())
	if err != nil {
		return nil, fmt.Errorf("find reactions: %w", err)
	}
	return reactions, nil
}
