// AngelaMos | 2026
// hub.go

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

const defaultSendBuffer = 32

type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Bus is the connect / disconnect / broadcast surface. Delivery order
// between clients is not guaranteed.
type Bus interface {
	Connect(userID string) *Client
	Disconnect(client *Client)
	Broadcast(ctx context.Context, eventType string, payload any)
}

type Client struct {
	ID     string
	UserID string
	send   chan Event
	once   sync.Once
}

func (c *Client) Events() <-chan Event {
	return c.send
}

func (c *Client) close() {
	c.once.Do(func() { close(c.send) })
}

// Publisher relays events to other instances. Events it publishes come
// back through Deliver on every instance, this one included.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	sendBuffer int
	publisher  Publisher
	logger     *slog.Logger
	metrics    *core.Metrics
}

type HubConfig struct {
	SendBuffer int
	Logger     *slog.Logger
	Metrics    *core.Metrics
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		sendBuffer: cfg.SendBuffer,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// SetPublisher routes broadcasts through p instead of delivering locally.
func (h *Hub) SetPublisher(p Publisher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.publisher = p
}

func (h *Hub) Connect(userID string) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		send:   make(chan Event, h.sendBuffer),
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.RealtimeClients.Inc()
	}

	h.logger.Debug("realtime client connected",
		"client_id", c.ID,
		"user_id", userID,
	)

	return c
}

func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	h.mu.Unlock()

	if !ok {
		return
	}

	c.close()

	if h.metrics != nil {
		h.metrics.RealtimeClients.Dec()
	}

	h.logger.Debug("realtime client disconnected",
		"client_id", c.ID,
		"user_id", c.UserID,
	)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(ctx context.Context, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "encode realtime event",
			"type", eventType,
			"error", err,
		)
		return
	}

	event := Event{
		Type:      eventType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}

	if h.metrics != nil {
		h.metrics.RealtimeBroadcasts.WithLabelValues(eventType).Inc()
	}

	h.mu.RLock()
	publisher := h.publisher
	h.mu.RUnlock()

	if publisher != nil {
		err := publisher.Publish(ctx, event)
		if err == nil {
			return
		}
		h.logger.WarnContext(ctx, "realtime publish failed, delivering locally",
			"type", eventType,
			"error", err,
		)
	}

	h.Deliver(event)
}

// Deliver hands event to every local client. A client whose buffer is
// full misses the event rather than stalling the others.
func (h *Hub) Deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.logger.Warn("realtime client too slow, event dropped",
				"client_id", c.ID,
				"type", event.Type,
			)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
		if h.metrics != nil {
			h.metrics.RealtimeClients.Dec()
		}
	}
}

var _ Bus = (*Hub)(nil)
