package repo

import (
	"Parley/internal/db"
	"Parley/internal/model"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var ErrInvalidMessage = errors.New("invalid message: message cannot be nil")

type MessageRepository interface {
	// Send appends the message, patches the conversation's last-message
	// pointer and increments the unread counter for every recipient, all
	// inside one session transaction. Partial application is not
	// observable.
	Send(ctx context.Context, msg *model.Message, recipients []primitive.ObjectID) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Message, error)
	// FindByConversation returns the conversation's full log ordered by
	// creation time ascending, soft-deleted rows included.
	FindByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]model.Message, error)
	MarkDeleted(ctx context.Context, messageID primitive.ObjectID) error
}

type messageRepository struct {
	con       *mongo.Database
	mongoRepo *db.Repository[model.Message]
	logger    *zap.Logger
}

func NewMessageRepository(con *mongo.Database, repo *db.Repository[model.Message], logger *zap.Logger) MessageRepository {
	return &messageRepository{
		con:       con,
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *messageRepository) Send(ctx context.Context, msg *model.Message, recipients []primitive.ObjectID) (primitive.ObjectID, error) {
	if msg == nil {
		return primitive.NilObjectID, ErrInvalidMessage
	}
	if msg.ConversationID.IsZero() {
		return primitive.NilObjectID, ErrInvalidConversationID
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	result, err := db.WithTransaction(ctx, r.con, func(sc mongo.SessionContext) (interface{}, error) {
		insert, err := r.con.Collection(collMessages).InsertOne(sc, msg)
		if err != nil {
			return nil, fmt.Errorf("insert message: %w", err)
		}
		messageID, _ := insert.InsertedID.(primitive.ObjectID)

		_, err = r.con.Collection(collConversations).UpdateOne(sc,
			bson.M{"_id": msg.ConversationID},
			bson.M{"$set": bson.M{"last_message_id": messageID}},
		)
		if err != nil {
			return nil, fmt.Errorf("patch last message pointer: %w", err)
		}

		// Lazily create the counter at 1, otherwise bump it.
		unread := r.con.Collection(collUnread)
		for _, recipient := range recipients {
			_, err = unread.UpdateOne(sc,
				bson.M{"user_id": recipient, "conversation_id": msg.ConversationID},
				bson.M{"$inc": bson.M{"count": 1}},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return nil, fmt.Errorf("increment unread for %s: %w", recipient.Hex(), err)
			}
		}

		return messageID, nil
	})
	if err != nil {
		r.logger.Error("message send failed",
			zap.String("conversation_id", msg.ConversationID.Hex()),
			zap.Error(err),
		)
		return primitive.NilObjectID, err
	}

	messageID := result.(primitive.ObjectID)
	r.logger.Info("message sent",
		zap.String("message_id", messageID.Hex()),
		zap.String("conversation_id", msg.ConversationID.Hex()),
		zap.Int("recipients", len(recipients)),
	)
	return messageID, nil
}

func (r *messageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Message, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	msg, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

func (r *messageRepository) FindByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]model.Message, error) {
	if conversationID.IsZero() {
		return nil, ErrInvalidConversationID
	}

	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().ObjectID("conversation_id", conversationID).Build()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	messages, err := r.mongoRepo.FindAll(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	r.logger.Debug("messages retrieved",
		zap.String("conversation_id", conversationID.Hex()),
		zap.Int("count", len(messages)),
	)
	return messages, nil
}

func (r *messageRepository) MarkDeleted(ctx context.Context, messageID primitive.ObjectID) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.UpdateByID(ctx, messageID, bson.M{"deleted": true})
	if err != nil {
		r.logger.Error("soft delete failed", zap.String("message_id", messageID.Hex()), zap.Error(err))
		return fmt.Errorf("mark message deleted: %w", err)
	}
	return nil
}
