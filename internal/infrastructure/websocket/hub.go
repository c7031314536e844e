package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"greia/internal/domain/entity"
	"greia/internal/infrastructure/metrics"
	"greia/internal/infrastructure/presence"
	"greia/internal/usecase"
	"greia/pkg/logger"
)

const sendBuffer = 64

// ChatService is the part of the chat use case driven by socket events.
type ChatService interface {
	Connect(ctx context.Context, userID string) ([]string, error)
	Disconnect(ctx context.Context, userID string) error
	SendMessage(ctx context.Context, callerID string, input usecase.SendMessageInput) (*entity.ChatMessage, error)
	MarkRead(ctx context.Context, callerID, messageID string) (*entity.ChatMessage, error)
	Typing(ctx context.Context, callerID, roomID string, isTyping bool) error
}

// Presence tracks connection counts across instances.
type Presence interface {
	Connected(ctx context.Context, userID string) (bool, error)
	Disconnected(ctx context.Context, userID string) (bool, error)
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// Relay carries events to users connected to other instances.
type Relay interface {
	Publish(ctx context.Context, userIDs []string, event string, data interface{}) error
	Subscribe(ctx context.Context, fn func(presence.Envelope))
}

// Event is the {event, data} envelope written to clients.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

type registration struct {
	client *Client
	first  chan bool
}

type delivery struct {
	userIDs []string
	event   Event
}

type direct struct {
	client *Client
	event  Event
}

type onlineQuery struct {
	userID string
	reply  chan int
}

// Hub owns the user -> connections registry. Only the Run goroutine touches
// clients; everything else talks to it over channels.
type Hub struct {
	chat     ChatService
	presence Presence
	relay    Relay
	metrics  *metrics.Metrics

	register   chan registration
	unregister chan registration
	deliver    chan delivery
	direct     chan direct
	online     chan onlineQuery
	done       chan struct{}

	clients  map[string]map[*Client]struct{}
	handlers map[string]handlerFunc
}

type HubOption func(*Hub)

func WithPresence(p Presence) HubOption { return func(h *Hub) { h.presence = p } }
func WithRelay(r Relay) HubOption       { return func(h *Hub) { h.relay = r } }
func WithMetrics(m *metrics.Metrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

func NewHub(chat ChatService, opts ...HubOption) *Hub {
	h := &Hub{
		chat:       chat,
		register:   make(chan registration),
		unregister: make(chan registration),
		deliver:    make(chan delivery, 256),
		direct:     make(chan direct, 64),
		online:     make(chan onlineQuery),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.handlers = h.defaultHandlers()
	return h
}

// Run processes registry changes and deliveries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.relay != nil {
		h.relay.Subscribe(ctx, func(env presence.Envelope) {
			h.enqueue(delivery{userIDs: env.UserIDs, event: Event{Name: env.Event, Data: env.Data}})
		})
	}

	defer close(h.done)
	for {
		select {
		case reg := <-h.register:
			conns, ok := h.clients[reg.client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[reg.client.userID] = conns
			}
			conns[reg.client] = struct{}{}
			h.gauge(1)
			reg.first <- len(conns) == 1

		case reg := <-h.unregister:
			h.remove(reg.client)
			reg.first <- len(h.clients[reg.client.userID]) == 0

		case d := <-h.deliver:
			for _, userID := range d.userIDs {
				for c := range h.clients[userID] {
					h.push(c, d.event)
				}
			}

		case d := <-h.direct:
			if _, ok := h.clients[d.client.userID][d.client]; ok {
				h.push(d.client, d.event)
			}

		case q := <-h.online:
			q.reply <- len(h.clients[q.userID])

		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					h.remove(c)
				}
			}
			return
		}
	}
}

// remove drops c from the registry and closes its send channel once.
func (h *Hub) remove(c *Client) bool {
	conns, ok := h.clients[c.userID]
	if !ok {
		return false
	}
	if _, ok := conns[c]; !ok {
		return false
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	h.gauge(-1)
	return true
}

// push hands ev to a client; a client whose buffer is full is dropped.
func (h *Hub) push(c *Client, ev Event) {
	select {
	case c.send <- ev:
		if h.metrics != nil {
			h.metrics.WSMessagesTotal.WithLabelValues("out", ev.Name).Inc()
		}
	default:
		logger.Warn("WebSocket: dropping slow client %s", c.userID)
		if h.metrics != nil {
			h.metrics.WSDroppedTotal.Inc()
		}
		h.remove(c)
	}
}

func (h *Hub) gauge(delta float64) {
	if h.metrics != nil {
		h.metrics.WSConnectionsActive.Add(delta)
	}
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.deliver <- d:
	case <-h.done:
	}
}

// Publish delivers an event to every connection of the given users, here
// and, through the relay, on other instances.
func (h *Hub) Publish(userIDs []string, event string, data interface{}) {
	if len(userIDs) == 0 {
		return
	}
	h.enqueue(delivery{userIDs: userIDs, event: Event{Name: event, Data: data}})
	if h.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.relay.Publish(ctx, userIDs, event, data); err != nil {
			logger.Error("WebSocket: relay publish %s failed: %v", event, err)
		}
	}
}

func (h *Hub) IsOnline(ctx context.Context, userID string) bool {
	if h.presence != nil {
		online, err := h.presence.IsOnline(ctx, userID)
		if err == nil {
			return online
		}
		logger.Warn("WebSocket: presence lookup for %s failed, using local state: %v", userID, err)
	}

	return h.localConnections(ctx, userID) > 0
}

func (h *Hub) localConnections(ctx context.Context, userID string) int {
	q := onlineQuery{userID: userID, reply: make(chan int, 1)}
	select {
	case h.online <- q:
		return <-q.reply
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
}

func (h *Hub) sendTo(c *Client, event string, data interface{}) {
	select {
	case h.direct <- direct{client: c, event: Event{Name: event, Data: data}}:
	case <-h.done:
	}
}

// Serve registers conn for userID and blocks until the connection ends.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID string) {
	c := newClient(h, conn, userID)

	reg := registration{client: c, first: make(chan bool, 1)}
	select {
	case h.register <- reg:
	case <-h.done:
		conn.Close()
		return
	}
	first := <-reg.first
	if h.presence != nil {
		var err error
		if first, err = h.presence.Connected(ctx, userID); err != nil {
			logger.Error("WebSocket: presence connect for %s failed: %v", userID, err)
		}
	}
	if first {
		if _, err := h.chat.Connect(ctx, userID); err != nil {
			logger.Error("WebSocket: connect %s failed: %v", userID, err)
		}
	}
	logger.Info("WebSocket: client connected: %s", userID)

	go c.writePump()
	c.readPump(ctx)

	reg = registration{client: c, first: make(chan bool, 1)}
	select {
	case h.unregister <- reg:
	case <-h.done:
		return
	}
	last := <-reg.first
	if h.presence != nil {
		var err error
		if last, err = h.presence.Disconnected(context.Background(), userID); err != nil {
			logger.Error("WebSocket: presence disconnect for %s failed: %v", userID, err)
		}
	}
	if last {
		if err := h.chat.Disconnect(context.Background(), userID); err != nil {
			logger.Error("WebSocket: disconnect %s failed: %v", userID, err)
		}
	}
	logger.Info("WebSocket: client disconnected: %s", userID)
}
