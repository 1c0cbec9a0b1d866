package hub

import "beamchat/backend/internal/presence"

// Notifier fans one event out to every live endpoint of a target user.
// A user with no live endpoints is a silent no-op; a delivery failure to one
// endpoint never affects the others or the triggering operation.
type Notifier struct {
	registry *presence.Registry
	hub      *Hub
}

// NewNotifier creates a notifier over the given registry and hub.
func NewNotifier(registry *presence.Registry, h *Hub) *Notifier {
	return &Notifier{registry: registry, hub: h}
}

// NotifyUser pushes event to every live endpoint of userID.
func (n *Notifier) NotifyUser(userID uint, event Event) {
	for _, endpointID := range n.registry.Endpoints(userID) {
		n.hub.Send(endpointID, event)
	}
}

// Broadcast pushes event to every attached endpoint of every user.
func (n *Notifier) Broadcast(event Event) {
	n.hub.Broadcast(event)
}
