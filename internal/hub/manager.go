package hub

import (
	"Parley/internal/event"
	"Parley/internal/metrics"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	shardCount = 64
)

type inboundMessage struct {
	event  event.WsEvent
	client *Client
}

type clientBucket struct {
	sync.RWMutex
	rooms map[string]map[string]*Client
}

// Hub fans server events out to clients attached to conversation rooms.
// Delivery is best-effort: the store is the source of truth and a client
// that misses an event re-reads over HTTP.
type Hub struct {
	shards     [shardCount]*clientBucket
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage
	logger     *zap.Logger
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		register:       make(chan *Client, 1024),
		unregister:     make(chan *Client, 1024),
		inbound:        make(chan inboundMessage, 4096),
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	for i := 0; i < shardCount; i++ {
		h.shards[i] = &clientBucket{
			rooms: make(map[string]map[string]*Client),
		}
	}

	go h.run()

	for i := 0; i < workerPoolSize; i++ {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			for {
				select {
				case <-h.ctx.Done():
					return
				case in := <-h.inbound:
					h.handleEvent(in.event, in.client)
				}
			}
		}()
	}

	return h
}

// handleEvent processes client frames. The only inbound frame is the
// transient typing hint, rebroadcast to the room; the store-backed typing
// endpoint remains authoritative.
func (h *Hub) handleEvent(ev event.WsEvent, c *Client) {
	switch ev.Event {
	case event.EventClientTyping:
		var typing event.Typing
		if ev.Payload != nil {
			if err := json.Unmarshal(ev.Payload, &typing); err != nil {
				h.logger.Warn("malformed typing frame", zap.String("client_id", c.ID), zap.Error(err))
				return
			}
		}
		typing.ConversationId = c.ConversationId
		typing.UserId = c.userId
		h.Publish(c.ConversationId, event.New(event.EventTyping, c.ConversationId, typing))
	default:
		h.logger.Warn("unknown event type", zap.String("event", ev.Event), zap.String("client_id", c.ID))
	}
}

// Publish delivers an event to every client attached to a conversation.
func (h *Hub) Publish(conversationID string, ev event.WsEvent) {
	sh := getShard(conversationID)
	b := h.shards[sh]

	b.RLock()
	room, ok := b.rooms[conversationID]
	if !ok || len(room) == 0 {
		b.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(room))
	for _, c := range room {
		clients = append(clients, c)
	}
	b.RUnlock()

	h.deliver(clients, ev)
}

// Broadcast delivers an event to every connected client (presence updates).
func (h *Hub) Broadcast(ev event.WsEvent) {
	var clients []*Client
	for _, b := range h.shards {
		b.RLock()
		for _, room := range b.rooms {
			for _, c := range room {
				clients = append(clients, c)
			}
		}
		b.RUnlock()
	}
	h.deliver(clients, ev)
}

func (h *Hub) deliver(clients []*Client, ev event.WsEvent) {
	for _, c := range clients {
		select {
		case c.egress <- ev:
		case <-c.ctx.Done():
			// client is disconnecting; the snapshot raced its removal
		case <-time.After(sendTimeout):
			metrics.WSPushDropped.Inc()
			h.logger.Warn("egress full, kicking client",
				zap.String("client_id", c.ID),
				zap.String("conversation_id", c.ConversationId),
			)
			select {
			case h.unregister <- c:
			case <-h.ctx.Done():
			}
		}
	}
}

func getShard(conversationID string) uint32 {
	if conversationID == "" {
		return 0
	}
	h := sha1.Sum([]byte(conversationID))
	return binary.BigEndian.Uint32(h[:4]) % shardCount
}

func (h *Hub) addClient(c *Client) {
	sh := getShard(c.ConversationId)
	b := h.shards[sh]
	b.Lock()
	defer b.Unlock()

	room, ok := b.rooms[c.ConversationId]
	if !ok {
		room = make(map[string]*Client)
		b.rooms[c.ConversationId] = room
	}

	room[c.ID] = c
	metrics.WSOnline.Inc()
	h.logger.Debug("client registered",
		zap.String("client_id", c.ID),
		zap.String("conversation_id", c.ConversationId),
		zap.Uint32("shard", sh),
	)
}

func (h *Hub) removeClient(c *Client) {
	sh := getShard(c.ConversationId)
	b := h.shards[sh]
	b.Lock()
	defer b.Unlock()

	if room, ok := b.rooms[c.ConversationId]; ok {
		if _, exists := room[c.ID]; exists {
			delete(room, c.ID)
			metrics.WSOnline.Dec()
		}
		if len(room) == 0 {
			delete(b.rooms, c.ConversationId)
		}

		c.Close()
		h.logger.Debug("client removed",
			zap.String("client_id", c.ID),
			zap.String("conversation_id", c.ConversationId),
		)
	}
}

func (h *Hub) Stop() {
	// Workers and read pumps all watch h.ctx; the inbound channel is left
	// open so in-flight senders never hit a closed channel.
	h.cancel()

	for _, shard := range h.shards {
		shard.RLock()
		for _, room := range shard.rooms {
			for _, client := range room {
				client.Close()
			}
		}
		shard.RUnlock()
	}

	h.wg.Wait()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	return h.allowedOrigins[r.Header.Get("Origin")]
}

// ServeWS upgrades the connection and attaches the client to a
// conversation room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string, conversationID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	RegisterClient(userID, conversationID, conn, h)
}
