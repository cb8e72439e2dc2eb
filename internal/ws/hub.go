package ws

import (
	"encoding/json"
	"sync"

	"rps_arena/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var notificationsDropped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "rps_notifications_dropped_total",
		Help: "Push events dropped because the endpoint was gone or saturated",
	},
)

func init() {
	prometheus.MustRegister(notificationsDropped)
}

// Message - конверт для всех push-сообщений
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub tracks which player is bound to which connection. One binding per
// player: a reconnect replaces the previous one.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*Client)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.UserID]
	h.clients[c.UserID] = c
	h.mu.Unlock()

	if old != nil {
		old.close()
	}
	logger.Debug("ws client registered", "user_id", c.UserID)
}

// unregister drops the binding, but only if it still points at this client.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == c {
		delete(h.clients, c.UserID)
	}
	h.mu.Unlock()

	c.close()
	logger.Debug("ws client unregistered", "user_id", c.UserID)
}

// Notify delivers an event to the player's bound connection, best effort.
// A missing binding is normal (the client polls instead); a saturated send
// buffer means the endpoint is dead, so the binding is dropped. Failures are
// never surfaced to the caller.
func (h *Hub) Notify(playerID int64, event string, payload any) {
	h.mu.RLock()
	c := h.clients[playerID]
	h.mu.RUnlock()

	if c == nil {
		return
	}

	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		logger.Error("failed to marshal push event", "event", event, "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		notificationsDropped.Inc()
		logger.Warn("dropping push event, endpoint gone", "user_id", playerID, "event", event)
		h.unregister(c)
	}
}

// Connected reports whether the player currently has a push binding.
func (h *Hub) Connected(playerID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[playerID] != nil
}
