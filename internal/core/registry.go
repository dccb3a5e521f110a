package core

import "sync"

// Registry is the authoritative mapping of connection ↔ username and
// connection → current channel. All mutation happens on the hub goroutine;
// the mutex only guards external read-only snapshots (REST handlers).
type Registry struct {
	mu sync.RWMutex

	userByConn map[string]string // connection id -> username
	connByUser map[string]string // username -> connection id, last writer wins
	channel    map[string]string // connection id -> current channel
	order      []string          // connection ids in registration order
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		userByConn: make(map[string]string),
		connByUser: make(map[string]string),
		channel:    make(map[string]string),
	}
}

// Register binds a connection to a username. A duplicate username is not
// rejected: the newest connection silently takes over DM routing for that
// name, matching the last-writer-wins index semantics.
func (r *Registry) Register(connID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.userByConn[connID]; !known {
		r.order = append(r.order, connID)
	}
	r.userByConn[connID] = username
	r.connByUser[username] = connID
}

// Unregister removes both index entries and the channel membership for a
// connection. It is idempotent: unknown connections are a no-op and the
// second return value reports whether anything was removed.
func (r *Registry) Unregister(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.userByConn[connID]
	if !ok {
		delete(r.channel, connID)
		return "", false
	}

	delete(r.userByConn, connID)
	delete(r.channel, connID)
	// Only drop the username index if it still points at this connection;
	// a later registration under the same name must keep routing.
	if r.connByUser[username] == connID {
		delete(r.connByUser, username)
	}
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return username, true
}

// Resolve returns the connection id a username routes to.
func (r *Registry) Resolve(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.connByUser[username]
	return connID, ok
}

// Username returns the name registered for a connection.
func (r *Registry) Username(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	username, ok := r.userByConn[connID]
	return username, ok
}

// Usernames returns a snapshot of all registered usernames in registration
// order.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, connID := range r.order {
		names = append(names, r.userByConn[connID])
	}
	return names
}

// Channel returns the channel a connection currently occupies.
func (r *Registry) Channel(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channel[connID]
	return channel, ok
}

// SetChannel records the connection's current channel, superseding any
// previous membership. A connection occupies at most one channel.
func (r *Registry) SetChannel(connID, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channel[connID] = channel
}
