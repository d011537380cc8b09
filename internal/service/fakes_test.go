package service

import (
	"Parley/internal/event"
	"Parley/internal/model"
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories implementing the repo interfaces, mirroring the
// store's upsert/transaction contracts so service logic can be exercised
// without a running MongoDB.

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) add(name string) *model.User {
	u := &model.User{
		ID:      primitive.NewObjectID(),
		ClerkID: "clerk_" + name,
		Name:    name,
		Email:   name + "@example.com",
	}
	f.users = append(f.users, u)
	return u
}

func (f *fakeUserRepo) Sync(_ context.Context, clerkID, name, email, imageURL string, now time.Time) (*model.User, error) {
	for _, u := range f.users {
		if u.ClerkID == clerkID {
			u.Name = name
			u.ImageURL = imageURL
			u.Online = true
			u.LastSeen = now
			copied := *u
			return &copied, nil
		}
	}
	u := &model.User{
		ID:       primitive.NewObjectID(),
		ClerkID:  clerkID,
		Name:     name,
		Email:    email,
		ImageURL: imageURL,
		Online:   true,
		LastSeen: now,
	}
	f.users = append(f.users, u)
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindBySubject(_ context.Context, clerkID string) (*model.User, error) {
	for _, u := range f.users {
		if u.ClerkID == clerkID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindManyByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var found []model.User
	for _, u := range f.users {
		if _, ok := want[u.ID]; ok {
			found = append(found, *u)
		}
	}
	return found, nil
}

func (f *fakeUserRepo) FindOthers(_ context.Context, clerkID string) ([]model.User, error) {
	var others []model.User
	for _, u := range f.users {
		if u.ClerkID != clerkID {
			others = append(others, *u)
		}
	}
	return others, nil
}

func (f *fakeUserRepo) SetPresence(_ context.Context, userID primitive.ObjectID, online bool, now time.Time) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.Online = online
			u.LastSeen = now
		}
	}
	return nil
}

type fakeConversationRepo struct {
	conversations []*model.Conversation

	// insertRace, when set, runs once before the next Insert to emulate a
	// concurrent writer landing between lookup and insert. A returned
	// error is surfaced as the Insert result.
	insertRace func() error
}

func (f *fakeConversationRepo) Insert(_ context.Context, conversation model.Conversation) (primitive.ObjectID, error) {
	if f.insertRace != nil {
		race := f.insertRace
		f.insertRace = nil
		if err := race(); err != nil {
			return primitive.NilObjectID, err
		}
	}
	conversation.ID = primitive.NewObjectID()
	f.conversations = append(f.conversations, &conversation)
	return conversation.ID, nil
}

func (f *fakeConversationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Conversation, error) {
	for _, c := range f.conversations {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) FindDirectByPair(_ context.Context, pair []primitive.ObjectID) (*model.Conversation, error) {
	for _, c := range f.conversations {
		if c.IsGroup || len(c.Participants) != len(pair) {
			continue
		}
		match := true
		for i := range pair {
			if c.Participants[i] != pair[i] {
				match = false
				break
			}
		}
		if match {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) FindAllForUser(_ context.Context, userID primitive.ObjectID) ([]model.Conversation, error) {
	var found []model.Conversation
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			found = append(found, *c)
		}
	}
	return found, nil
}

func (f *fakeConversationRepo) FindDirectForUser(_ context.Context, userID primitive.ObjectID) ([]model.Conversation, error) {
	var found []model.Conversation
	for _, c := range f.conversations {
		if !c.IsGroup && c.HasParticipant(userID) {
			found = append(found, *c)
		}
	}
	return found, nil
}

type unreadKey struct {
	user         primitive.ObjectID
	conversation primitive.ObjectID
}

type fakeUnreadRepo struct {
	counts map[unreadKey]int64
}

func newFakeUnreadRepo() *fakeUnreadRepo {
	return &fakeUnreadRepo{counts: make(map[unreadKey]int64)}
}

func (f *fakeUnreadRepo) Reset(_ context.Context, userID, conversationID primitive.ObjectID) error {
	key := unreadKey{user: userID, conversation: conversationID}
	// matches the store: update without upsert is a no-op when absent
	if _, ok := f.counts[key]; ok {
		f.counts[key] = 0
	}
	return nil
}

func (f *fakeUnreadRepo) FindForUser(_ context.Context, userID primitive.ObjectID) ([]model.UnreadCounter, error) {
	var rows []model.UnreadCounter
	for key, count := range f.counts {
		if key.user == userID {
			rows = append(rows, model.UnreadCounter{
				UserID:         key.user,
				ConversationID: key.conversation,
				Count:          count,
			})
		}
	}
	return rows, nil
}

func (f *fakeUnreadRepo) count(userID, conversationID primitive.ObjectID) (int64, bool) {
	c, ok := f.counts[unreadKey{user: userID, conversation: conversationID}]
	return c, ok
}

type fakeMessageRepo struct {
	messages      []*model.Message
	conversations *fakeConversationRepo
	unread        *fakeUnreadRepo
}

func (f *fakeMessageRepo) Send(_ context.Context, msg *model.Message, recipients []primitive.ObjectID) (primitive.ObjectID, error) {
	stored := *msg
	stored.ID = primitive.NewObjectID()
	f.messages = append(f.messages, &stored)

	for _, c := range f.conversations.conversations {
		if c.ID == msg.ConversationID {
			id := stored.ID
			c.LastMessageID = &id
		}
	}

	for _, recipient := range recipients {
		f.unread.counts[unreadKey{user: recipient, conversation: msg.ConversationID}]++
	}
	return stored.ID, nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) FindByConversation(_ context.Context, conversationID primitive.ObjectID) ([]model.Message, error) {
	var found []model.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			found = append(found, *m)
		}
	}
	// mirrors the store's created_at ascending sort
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].CreatedAt.Before(found[j].CreatedAt)
	})
	return found, nil
}

func (f *fakeMessageRepo) MarkDeleted(_ context.Context, messageID primitive.ObjectID) error {
	for _, m := range f.messages {
		if m.ID == messageID {
			m.Deleted = true
		}
	}
	return nil
}

type fakeReactionRepo struct {
	reactions []model.Reaction
}

func (f *fakeReactionRepo) Toggle(_ context.Context, messageID, userID primitive.ObjectID, emoji string, now time.Time) (bool, error) {
	for i, r := range f.reactions {
		if r.MessageID == messageID && r.UserID == userID && r.Emoji == emoji {
			f.reactions = append(f.reactions[:i], f.reactions[i+1:]...)
			return false, nil
		}
	}
	f.reactions = append(f.reactions, model.Reaction{
		ID:        primitive.NewObjectID(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: now,
	})
	return true, nil
}

func (f *fakeReactionRepo) FindByMessage(_ context.Context, messageID primitive.ObjectID) ([]model.Reaction, error) {
	var found []model.Reaction
	for _, r := range f.reactions {
		if r.MessageID == messageID {
			found = append(found, r)
		}
	}
	return found, nil
}

type fakeTypingRepo struct {
	markers []model.TypingMarker
}

func (f *fakeTypingRepo) Upsert(_ context.Context, conversationID, userID primitive.ObjectID, expiresAt time.Time) error {
	for i, m := range f.markers {
		if m.ConversationID == conversationID && m.UserID == userID {
			f.markers[i].ExpiresAt = expiresAt
			return nil
		}
	}
	f.markers = append(f.markers, model.TypingMarker{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		UserID:         userID,
		ExpiresAt:      expiresAt,
	})
	return nil
}

func (f *fakeTypingRepo) FindActive(_ context.Context, conversationID primitive.ObjectID, now time.Time) ([]model.TypingMarker, error) {
	var active []model.TypingMarker
	for _, m := range f.markers {
		if m.ConversationID == conversationID && m.ExpiresAt.After(now) {
			active = append(active, m)
		}
	}
	return active, nil
}

type fakePublisher struct {
	published []event.WsEvent
	broadcast []event.WsEvent
}

func (f *fakePublisher) Publish(_ string, ev event.WsEvent) {
	f.published = append(f.published, ev)
}

func (f *fakePublisher) Broadcast(ev event.WsEvent) {
	f.broadcast = append(f.broadcast, ev)
}
