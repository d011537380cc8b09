package hub

import (
	"Parley/internal/event"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newStubClient builds a client without a live websocket conn. The writer
// side is marked done up front so Close never reaches for the conn.
func newStubClient(h *Hub, conversationID string, buf int) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ID:             uuid.New().String(),
		ConversationId: conversationID,
		userId:         "user",
		manager:        h,
		egress:         make(chan event.WsEvent, buf),
		logger:         h.logger,
		ctx:            ctx,
		cancel:         cancel,
		connClosed:     make(chan struct{}),
	}
	c.connClosedOnce.Do(func() { close(c.connClosed) })
	return c
}

func TestDeliverReturnsWhenClientDisconnects(t *testing.T) {
	h := NewHub(zap.NewNop(), nil)
	defer h.Stop()

	c := newStubClient(h, "room", 1)
	h.addClient(c)
	c.egress <- event.New(event.EventTyping, "room", nil) // egress full

	// Disconnect while a publish is blocked on the full egress buffer.
	go func() {
		time.Sleep(20 * time.Millisecond)
		h.removeClient(c)
	}()

	done := make(chan struct{})
	go func() {
		h.deliver([]*Client{c}, event.New(event.EventMessageNew, "room", nil))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(sendTimeout):
		t.Fatal("deliver did not return after the client disconnected")
	}
}

func TestPublishToRemovedClient(t *testing.T) {
	h := NewHub(zap.NewNop(), nil)
	defer h.Stop()

	c := newStubClient(h, "room", 1)
	h.addClient(c)
	h.removeClient(c)

	// The room is gone; a late publish is a no-op, never a panic.
	h.Publish("room", event.New(event.EventMessageNew, "room", nil))

	b := h.shards[getShard("room")]
	b.RLock()
	_, ok := b.rooms["room"]
	b.RUnlock()
	assert.False(t, ok)
}

func TestPublishAfterStop(t *testing.T) {
	h := NewHub(zap.NewNop(), nil)
	c := newStubClient(h, "room", 1)
	h.addClient(c)

	h.Stop()

	// Shutdown must not leave channels that in-flight senders can trip on.
	h.Publish("room", event.New(event.EventPresence, "", nil))
	h.Broadcast(event.New(event.EventPresence, "", nil))

	select {
	case h.inbound <- inboundMessage{client: c, event: event.New(event.EventClientTyping, "room", nil)}:
	default:
	}
}

func TestStopClosesClients(t *testing.T) {
	h := NewHub(zap.NewNop(), nil)
	c := newStubClient(h, "room", 1)
	h.addClient(c)

	h.Stop()

	select {
	case <-c.ctx.Done():
	default:
		t.Fatal("client context still live after hub stop")
	}
	require.NotPanics(t, func() { c.Close() })
}
