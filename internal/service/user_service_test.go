package service

import (
	"Parley/internal/apperr"
	"Parley/internal/event"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCreatesAndUpdates(t *testing.T) {
	f := newFixture()
	svc := f.userService()

	created, err := svc.Sync(f.context, "clerk_1", "Alice", "alice@example.com", "http://img/1")
	require.NoError(t, err)
	assert.True(t, created.Online)
	assert.Equal(t, "alice@example.com", created.Email)

	// second sync updates the profile in place but never the email
	updated, err := svc.Sync(f.context, "clerk_1", "Alice Smith", "new@example.com", "http://img/2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, "http://img/2", updated.ImageURL)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Len(t, f.users.users, 1)
}

func TestSyncRequiresSubject(t *testing.T) {
	f := newFixture()

	_, err := f.userService().Sync(f.context, "", "Alice", "alice@example.com", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSyncBroadcastsPresence(t *testing.T) {
	f := newFixture()

	_, err := f.userService().Sync(f.context, "clerk_1", "Alice", "alice@example.com", "")
	require.NoError(t, err)

	require.Len(t, f.events.broadcast, 1)
	assert.Equal(t, event.EventPresence, f.events.broadcast[0].Event)
}

func TestRequireBySubject(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	svc := f.userService()

	found, err := svc.RequireBySubject(f.context, alice.ClerkID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = svc.RequireBySubject(f.context, "clerk_unknown")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateStatusBroadcastsPresence(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	alice.Online = true

	require.NoError(t, f.userService().UpdateStatus(f.context, alice, false))

	stored, err := f.users.FindByID(f.context, alice.ID)
	require.NoError(t, err)
	assert.False(t, stored.Online)
	require.Len(t, f.events.broadcast, 1)
	assert.Equal(t, event.EventPresence, f.events.broadcast[0].Event)
}

func TestListOthersAnnotatesDirectConversations(t *testing.T) {
	f := newFixture()
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	carol := f.users.add("Carol")
	withBob := f.directBetween(alice, bob)

	_, err := f.messageService().Send(f.context, bob, withBob.ID, "hi")
	require.NoError(t, err)

	others, err := f.userService().ListOthers(f.context, alice)
	require.NoError(t, err)
	require.Len(t, others, 2)

	for _, other := range others {
		switch other.ID {
		case bob.ID:
			require.NotNil(t, other.ConversationID)
			assert.Equal(t, withBob.ID, *other.ConversationID)
			assert.Equal(t, int64(1), other.UnreadCount)
		case carol.ID:
			// no conversation resolved with Carol yet
			assert.Nil(t, other.ConversationID)
			assert.Zero(t, other.UnreadCount)
		default:
			t.Fatalf("unexpected user %s in ListOthers", other.Name)
		}
	}
}
