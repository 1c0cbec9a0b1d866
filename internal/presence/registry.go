// Package presence tracks which session endpoints a user is currently
// reachable on. The registry is pure accounting: it never emits events, the
// connection gateway decides what a registration or removal means.
package presence

import "sync"

const shardCount = 32

type shard struct {
	mu        sync.Mutex
	endpoints map[uint]map[string]struct{}
}

// Registry holds the live session-endpoint set per user, sharded by user ID
// so mutations for one user serialize without a process-wide lock.
type Registry struct {
	shards [shardCount]shard
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].endpoints = make(map[uint]map[string]struct{})
	}
	return r
}

func (r *Registry) shardFor(userID uint) *shard {
	return &r.shards[userID%shardCount]
}

// Register adds an endpoint to the user's live set. Registering an already
// known endpoint is a no-op. It reports whether this registration took the
// user from zero endpoints to one.
func (r *Registry) Register(userID uint, endpointID string) (first bool) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.endpoints[userID]
	if !ok {
		set = make(map[string]struct{})
		s.endpoints[userID] = set
	}
	first = len(set) == 0
	set[endpointID] = struct{}{}
	return first
}

// Unregister removes an endpoint from the user's live set and returns the
// number of endpoints remaining. Removing an unknown endpoint is a no-op.
func (r *Registry) Unregister(userID uint, endpointID string) (remaining int) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.endpoints[userID]
	if !ok {
		return 0
	}
	delete(set, endpointID)
	if len(set) == 0 {
		delete(s.endpoints, userID)
		return 0
	}
	return len(set)
}

// Endpoints returns a copy of the user's current live endpoint set.
// Order carries no meaning.
func (r *Registry) Endpoints(userID uint) []string {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.endpoints[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Online reports whether the user has at least one live endpoint.
func (r *Registry) Online(userID uint) bool {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.endpoints[userID]) > 0
}
