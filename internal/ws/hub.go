package ws

import (
	"sync"

	"roleplay-online/backend/pkg/logger"
)

// Event is one message pushed to a connected client.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans session events out to every connection a user has open. It
// implements the chat service's Notifier.
type Hub struct {
	log *logger.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Hub{
		log:     log,
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Notify pushes an event to every connection owned by email. Slow clients
// that cannot keep up are disconnected rather than blocking the sender.
func (h *Hub) Notify(email, eventType string, payload any) {
	event := Event{Type: eventType, Payload: payload}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[email]))
	for c := range h.clients[email] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !c.trySend(event) {
			h.log.Warn("Dropping slow websocket client", "email", email)
			h.unregister(c)
			c.close()
		}
	}
}

// ConnectionCount reports how many connections a user has open.
func (h *Hub) ConnectionCount(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[email])
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.email] == nil {
		h.clients[c.email] = make(map[*Client]struct{})
	}
	h.clients[c.email][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.email]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.email)
		}
	}
}
