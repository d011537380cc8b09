package service

import (
	"Parley/internal/apperr"
	"Parley/internal/event"
	"Parley/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendFansOutUnreadToOtherParticipants(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	carol := f.users.add("Carol")
	conversation := f.groupOf("Team", alice, bob, carol)

	_, err := f.messageService().Send(f.context, alice, conversation.ID, "hello")
	require.NoError(t, err)

	bobCount, ok := f.unread.count(bob.ID, conversation.ID)
	require.True(t, ok)
	assert.Equal(t, int64(1), bobCount)

	carolCount, ok := f.unread.count(carol.ID, conversation.ID)
	require.True(t, ok)
	assert.Equal(t, int64(1), carolCount)

	// the sender's own counter is never touched
	_, ok = f.unread.count(alice.ID, conversation.ID)
	assert.False(t, ok)
}

func TestSendPatchesLastMessagePointer(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	conversation := f.directBetween(alice, bob)

	messageID, err := f.messageService().Send(f.context, alice, conversation.ID, "hello")
	require.NoError(t, err)

	stored, err := f.convs.FindByID(f.context, conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastMessageID)
	assert.Equal(t, messageID, *stored.LastMessageID)
}

func TestSendDeniesNonParticipants(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	mallory := f.users.add("Mallory")
	conversation := f.directBetween(alice, bob)

	_, err := f.messageService().Send(f.context, mallory, conversation.ID, "hi")
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))
	assert.Empty(t, f.msgs.messages)
}

func TestSendPublishesEvent(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	conversation := f.directBetween(alice, bob)

	_, err := f.messageService().Send(f.context, alice, conversation.ID, "hello")
	require.NoError(t, err)

	require.Len(t, f.events.published, 1)
	assert.Equal(t, event.EventMessageNew, f.events.published[0].Event)
}

func TestListRequiresMembership(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	mallory := f.users.add("Mallory")
	conversation := f.directBetween(alice, bob)

	_, err := f.messageService().List(f.context, mallory, conversation.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))
}

func TestListOrdersByCreationTime(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	conversation := f.directBetween(alice, bob)

	// seeded out of order; the log always reads oldest first
	base := time.Now()
	for i, offset := range []time.Duration{2 * time.Second, 0, time.Second} {
		f.msgs.messages = append(f.msgs.messages, &model.Message{
			ID:             primitive.NewObjectID(),
			ConversationID: conversation.ID,
			SenderID:       alice.ID,
			Content:        fmt.Sprintf("m%d", i),
			CreatedAt:      base.Add(offset),
		})
	}

	messages, err := f.messageService().List(f.context, alice, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].Content)
	assert.Equal(t, "m2", messages[1].Content)
	assert.Equal(t, "m0", messages[2].Content)
}

func TestSoftDeleteKeepsMessageInLog(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	conversation := f.directBetween(alice, bob)
	svc := f.messageService()

	messageID, err := svc.Send(f.context, alice, conversation.ID, "oops")
	require.NoError(t, err)
	_, err = svc.Send(f.context, bob, conversation.ID, "what?")
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(f.context, alice, messageID))

	messages, err := svc.List(f.context, alice, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	var deleted int
	for _, m := range messages {
		if m.Deleted {
			deleted++
			assert.Equal(t, messageID, m.ID)
			assert.Equal(t, "oops", m.Content)
		}
	}
	assert.Equal(t, 1, deleted)
}

func TestSoftDeleteSenderOnly(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	conversation := f.directBetween(alice, bob)
	svc := f.messageService()

	messageID, err := svc.Send(f.context, alice, conversation.ID, "mine")
	require.NoError(t, err)

	err = svc.SoftDelete(f.context, bob, messageID)
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))

	messages, err := svc.List(f.context, bob, conversation.ID)
	require.NoError(t, err)
	assert.False(t, messages[0].Deleted)
}
