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

type UserRepository interface {
	// Sync upserts a user by identity-provider id: existing users get
	// refreshed profile fields and are marked online, new users are
	// inserted online. Returns the user's internal id either way.
	Sync(ctx context.Context, clerkID, name, email, imageURL string, now time.Time) (*model.User, error)
	FindBySubject(ctx context.Context, clerkID string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	FindOthers(ctx context.Context, clerkID string) ([]model.User, error)
	SetPresence(ctx context.Context, userID primitive.ObjectID, online bool, now time.Time) error
}

type userRepository struct {
	con       *mongo.Database
	mongoRepo *db.Repository[model.User]
	logger    *zap.Logger
}

func NewUserRepository(con *mongo.Database, repo *db.Repository[model.User], logger *zap.Logger) UserRepository {
	return &userRepository{
		con:       con,
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *userRepository) Sync(ctx context.Context, clerkID, name, email, imageURL string, now time.Time) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("clerk_id", clerkID).Build()
	// Email is only written on first insert; a login refresh does not
	// overwrite it.
	update := bson.M{
		"$set": bson.M{
			"name":      name,
			"image_url": imageURL,
			"online":    true,
			"last_seen": now,
		},
		"$setOnInsert": bson.M{
			"email": email,
		},
	}

	user, err := r.mongoRepo.FindOneAndUpsert(ctx, filter, update)
	if err != nil {
		r.logger.Error("user sync failed", zap.String("clerk_id", clerkID), zap.Error(err))
		return nil, fmt.Errorf("sync user: %w", err)
	}

	r.logger.Debug("user synced", zap.String("clerk_id", clerkID), zap.String("user_id", user.ID.Hex()))
	return user, nil
}

func (r *userRepository) FindBySubject(ctx context.Context, clerkID string) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindOne(ctx, db.NewFilter().Eq("clerk_id", clerkID).Build())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by subject: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	users, err := r.mongoRepo.FindAll(ctx, db.NewFilter().In("_id", ids).Build())
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (r *userRepository) FindOthers(ctx context.Context, clerkID string) ([]model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	users, err := r.mongoRepo.FindAll(ctx, db.NewFilter().Ne("clerk_id", clerkID).Build())
	if err != nil {
		return nil, fmt.Errorf("find other users: %w", err)
	}
	return users, nil
}

func (r *userRepository) SetPresence(ctx context.Context, userID primitive.ObjectID, online bool, now time.Time) error {
	if userID.IsZero() {
		return ErrInvalidUserID
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.UpdateByID(ctx, userID, bson.M{
		"online":    online,
		"last_seen": now,
	})
	if err != nil {
		r.logger.Error("presence update failed",
			zap.String("user_id", userID.Hex()),
			zap.Bool("online", online),
			zap.Error(err),
		)
		return fmt.Errorf("set presence: %w", err)
	}
	return nil
}
