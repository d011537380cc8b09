package service

import (
	"Parley/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	users   *fakeUserRepo
	convs   *fakeConversationRepo
	msgs    *fakeMessageRepo
	reacts  *fakeReactionRepo
	typing  *fakeTypingRepo
	unread  *fakeUnreadRepo
	events  *fakePublisher
	logger  *zap.Logger
	context context.Context
}

func newFixture() *fixture {
	users := &fakeUserRepo{}
	convs := &fakeConversationRepo{}
	unread := newFakeUnreadRepo()
	return &fixture{
		users:   users,
		convs:   convs,
		msgs:    &fakeMessageRepo{conversations: convs, unread: unread},
		reacts:  &fakeReactionRepo{},
		typing:  &fakeTypingRepo{},
		unread:  unread,
		events:  &fakePublisher{},
		logger:  zap.NewNop(),
		context: context.Background(),
	}
}

func (f *fixture) userService() UserService {
	return NewUserService(f.users, f.convs, f.unread, f.events, f.logger)
}

func (f *fixture) conversationService() ConversationService {
	return NewConversationService(f.convs, f.users, f.logger)
}

func (f *fixture) messageService() MessageService {
	return NewMessageService(f.msgs, f.convs, f.events, f.logger)
}

func (f *fixture) reactionService() ReactionService {
	return NewReactionService(f.reacts, f.msgs, f.convs, f.events, f.logger)
}

func (f *fixture) typingService() *typingService {
	return NewTypingService(f.typing, f.convs, f.users, f.events, f.logger).(*typingService)
}

func (f *fixture) unreadService() UnreadService {
	return NewUnreadService(f.unread, f.convs, f.logger)
}

// directBetween seeds a resolved direct conversation for two users.
func (f *fixture) directBetween(a, b *model.User) *model.Conversation {
	conversation, err := f.conversationService().ResolveDirect(f.context, a, b.ID)
	if err != nil {
		panic(err)
	}
	return conversation
}

// groupOf seeds a group conversation created by the first user.
func (f *fixture) groupOf(name string, creator *model.User, others ...*model.User) *model.Conversation {
	ids := make([]primitive.ObjectID, 0, len(others))
	for _, u := range others {
		ids = append(ids, u.ID)
	}
	conversation, err := f.conversationService().CreateGroup(f.context, creator, ids, name)
	if err != nil {
		panic(err)
	}
	return conversation
}
