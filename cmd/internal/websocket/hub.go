package websocket

import (
	"livechat/cmd/internal/contract"
	"sync"
)

// Hub tracks every live connection, authenticated or not. It backs the
// presence broadcasts and the expired-session sweeper; per-user routing
// goes through the registry instead.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
}

// Broadcast fans an envelope out to every client except the one named.
func (h *Hub) Broadcast(msg *contract.OutgoingSocketMessage, exceptConnID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == exceptConnID {
			continue
		}
		c.Send(msg)
	}
}

// Clients returns a snapshot of the current connections.
func (h *Hub) Clients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snapshot := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
