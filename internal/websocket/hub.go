package websocket

import (
	"encoding/json"
	"sync"
)

// CashEvent is pushed to every connected client of a tenant after a ledger
// write commits. Kind "balance" carries the pool and its new balance; kind
// "reset" carries no pool and tells observers to reload everything.
type CashEvent struct {
	Kind    string `json:"kind"`
	Pool    string `json:"pool,omitempty"`
	Balance string `json:"balance,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(tenantID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tenantID] == nil {
		h.clients[tenantID] = make(map[*Client]struct{})
	}
	h.clients[tenantID][client] = struct{}{}
}

func (h *Hub) Unregister(tenantID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tenantID] == nil {
		return
	}
	delete(h.clients[tenantID], client)
	if len(h.clients[tenantID]) == 0 {
		delete(h.clients, tenantID)
	}
}

// BroadcastCash delivers best-effort: a client with a full send buffer is
// skipped rather than blocking the ledger path.
func (h *Hub) BroadcastCash(tenantID string, event CashEvent) {
	payload, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[tenantID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
