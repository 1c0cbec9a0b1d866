// Package hub delivers realtime events to live session endpoints. It knows
// nothing about users; callers address endpoints by the opaque IDs the
// presence registry hands out.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single endpoint connection. The websocket write pump
// drains it; the hub only ever performs non-blocking sends into it.
type Client chan []byte

// Hub routes events to attached endpoint clients.
type Hub struct {
	mu        sync.RWMutex
	endpoints map[string]Client
	log       *slog.Logger
}

// New creates an empty hub.
func New(log *slog.Logger) *Hub {
	return &Hub{
		endpoints: make(map[string]Client),
		log:       log,
	}
}

// Attach registers a client under an endpoint ID.
func (h *Hub) Attach(endpointID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.endpoints[endpointID] = client
}

// Detach removes an endpoint and closes its channel to signal the write pump
// to stop. Detaching an unknown endpoint is a no-op.
func (h *Hub) Detach(endpointID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.endpoints[endpointID]; ok {
		delete(h.endpoints, endpointID)
		close(client)
	}
}

// Send pushes an event to one endpoint. Delivery is best-effort: a missing
// endpoint or a full client channel drops the event and reports false, it
// never blocks the caller.
func (h *Hub) Send(endpointID string, event Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("hub: marshal event", "type", event.Type, "error", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.endpoints[endpointID]
	if !ok {
		return false
	}
	select {
	case client <- data:
		return true
	default:
		// Slow or dying endpoint; the disconnect path cleans it up.
		h.log.Warn("hub: dropped event for slow endpoint", "endpoint", endpointID, "type", event.Type)
		return false
	}
}

// Broadcast sends an event to every attached endpoint, with the same
// non-blocking semantics as Send.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("hub: marshal event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.endpoints {
		select {
		case client <- data:
		default:
			h.log.Warn("hub: dropped broadcast for slow endpoint", "endpoint", id, "type", event.Type)
		}
	}
}
