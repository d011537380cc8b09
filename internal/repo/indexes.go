package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the write paths rely on: the
// direct-conversation pair and the (message, user, emoji) reaction row are
// kept unique by the store, so a racing insert surfaces as a duplicate-key
// error instead of a duplicate document. Run once at startup.
func EnsureIndexes(ctx context.Context, con *mongo.Database) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := con.Collection(collConversations).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "participants", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_group": false}),
	})
	if err != nil {
		return fmt.Errorf("ensure conversation pair index: %w", err)
	}

	_, err = con.Collection(collReactions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "message_id", Value: 1},
			{Key: "user_id", Value: 1},
			{Key: "emoji", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure reaction row index: %w", err)
	}

	return nil
}
