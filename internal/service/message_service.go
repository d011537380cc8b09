package service

import (
	"Parley/internal/apperr"
	"Parley/internal/event"
	"Parley/internal/metrics"
	"Parley/internal/model"
	"Parley/internal/repo"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MessageService interface {
	// Send appends a message and fans out unread increments to every other
	// participant in one atomic store operation.
	Send(ctx context.Context, user *model.User, conversationID primitive.ObjectID, content string) (primitive.ObjectID, error)
	List(ctx context.Context, user *model.User, conversationID primitive.ObjectID) ([]model.Message, error)
	// SoftDelete flags the message as deleted. Sender only; content is
	// retained for the placeholder rendering.
	SoftDelete(ctx context.Context, user *model.User, messageID primitive.ObjectID) error
}

type messageService struct {
	messages      repo.MessageRepository
	conversations repo.ConversationRepository
	events        event.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewMessageService(messages repo.MessageRepository, conversations repo.ConversationRepository, events event.Publisher, logger *zap.Logger) MessageService {
	return &messageService{
		messages:      messages,
		conversations: conversations,
		events:        events,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *messageService) Send(ctx context.Context, user *model.User, conversationID primitive.ObjectID, content string) (primitive.ObjectID, error) {
	conversation, err := requireParticipant(ctx, s.conversations, user, conversationID)
	if err != nil {
		return primitive.NilObjectID, err
	}

	recipients := Filter(conversation.Participants, func(id primitive.ObjectID) bool {
		return id != user.ID
	})

	msg := model.Message{
		ConversationID: conversationID,
		SenderID:       user.ID,
		Content:        content,
		Deleted:        false,
		CreatedAt:      s.now(),
	}

	messageID, err := s.messages.Send(ctx, &msg, recipients)
	if err != nil {
		return primitive.NilObjectID, err
	}

	metrics.MessagesSent.Inc()
	s.events.Publish(conversationID.Hex(), event.New(event.EventMessageNew, conversationID.Hex(), event.MessageNew{
		MessageId:      messageID.Hex(),
		ConversationId: conversationID.Hex(),
		SenderId:       user.ID.Hex(),
		Content:        content,
		CreatedAt:      msg.CreatedAt,
	}))
	return messageID, nil
}

func (s *messageService) List(ctx context.Context, user *model.User, conversationID primitive.ObjectID) ([]model.Message, error) {
	if _, err := requireParticipant(ctx, s.conversations, user, conversationID); err != nil {
		return nil, err
	}
	return s.messages.FindByConversation(ctx, conversationID)
}

func (s *messageService) SoftDelete(ctx context.Context, user *model.User, messageID primitive.ObjectID) error {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperr.NotFound("message not found")
	}
	if msg.SenderID != user.ID {
		return apperr.AccessDenied("only the sender can delete a message")
	}

	if err := s.messages.MarkDeleted(ctx, messageID); err != nil {
		return err
	}

	metrics.MessagesDeleted.Inc()
	s.events.Publish(msg.ConversationID.Hex(), event.New(event.EventMessageDeleted, msg.ConversationID.Hex(), event.MessageDeleted{
		MessageId:      messageID.Hex(),
		ConversationId: msg.ConversationID.Hex(),
	}))
	return nil
}
