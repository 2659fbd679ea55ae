// Package registry tracks which durable user ids currently have a live
// socket connection. It is the single piece of mutable shared state in the
// realtime core; everything else consults it through the four operations
// below and never iterates it directly.
package registry

import (
	"livechat/cmd/internal/contract"
	"sync"
)

// Conn is an opaque handle to one live client connection.
type Conn interface {
	// ID identifies the underlying transport connection, not the user.
	ID() string
	// Send enqueues an outgoing envelope; it must never block.
	Send(msg *contract.OutgoingSocketMessage)
}

type Entry struct {
	UserID      string
	Conn        Conn
	ConnectedAt int64
}

// Registry maps durable user ids to their current connection. Instances are
// injected, never shared through a package-level global, so tests and
// multiple servers get isolated state.
//
// Policy: replace. A user authenticating on a second tab or device
// overwrites the previous entry; only one socket per user is tracked.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register inserts or overwrites the entry for userID. Overwriting silently
// drops the link to the previous connection.
func (r *Registry) Register(userID string, conn Conn, connectedAt int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = &Entry{
		UserID:      userID,
		Conn:        conn,
		ConnectedAt: connectedAt,
	}
}

// UnregisterByConn removes the entry holding the given connection id and
// returns the user it belonged to. A connection that never authenticated,
// or that was already replaced by a newer one, matches nothing.
func (r *Registry) UnregisterByConn(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, entry := range r.entries {
		if entry.Conn.ID() == connID {
			delete(r.entries, userID)
			return userID, true
		}
	}
	return "", false
}

// Lookup returns the current connection for userID, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return entry.Conn, true
}

func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
