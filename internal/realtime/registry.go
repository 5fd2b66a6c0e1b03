package realtime

import (
	"log/slog"
	"sync"
)

// Conn is the server-side handle to one live client session. *Client is the
// production implementation; tests substitute in-memory fakes.
type Conn interface {
	ID() string
	Send(message []byte) error
	Close() error
}

// Registry is the single authoritative store of live connections and room
// membership. All access goes through the mutex; reads hand out snapshots so
// nothing iterates the maps while a concurrent disconnect mutates them, and
// no lock is ever held across a send.
type Registry struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}
	rooms map[string]map[Conn]struct{} // room name -> member set
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[Conn]struct{}),
		rooms: make(map[string]map[Conn]struct{}),
	}
}

// Register adds conn to the global set and optionally to the given rooms.
// Idempotent: re-registering an already-present connection is a no-op.
func (r *Registry) Register(c Conn, rooms ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		r.conns[c] = struct{}{}
		slog.Debug("connection registered", "conn_id", c.ID())
	}
	for _, room := range rooms {
		r.joinLocked(c, room)
	}
}

// Unregister removes conn from the global set and from every room it belongs
// to. No-op if the connection is already gone.
func (r *Registry) Unregister(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return
	}
	delete(r.conns, c)
	for _, members := range r.rooms {
		delete(members, c)
	}
	slog.Debug("connection unregistered", "conn_id", c.ID())
}

// JoinRoom adds conn to a single room, creating the room entry if absent.
// Subscribing twice must not duplicate delivery; map membership makes the
// operation naturally idempotent.
func (r *Registry) JoinRoom(c Conn, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joinLocked(c, room)
}

func (r *Registry) joinLocked(c Conn, room string) {
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[Conn]struct{})
		r.rooms[room] = members
	}
	members[c] = struct{}{}
}

// LeaveRoom removes conn from a single room. Leaving a room the connection
// is not in is a no-op. Rooms are never destroyed on becoming empty.
func (r *Registry) LeaveRoom(c Conn, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.rooms[room]; ok {
		delete(members, c)
	}
}

// HasRoom reports whether a room has ever been subscribed to, member or not.
func (r *Registry) HasRoom(room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room]
	return ok
}

// MembersOf returns a snapshot of the room's current member set; empty when
// the room has no members or does not exist.
func (r *Registry) MembersOf(room string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	out := make([]Conn, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// AllConnections returns a snapshot of the full connection set.
func (r *Registry) AllConnections() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Conn, 0, len(r.conns))
	for c := range r.conns {
		out = append(out, c)
	}
	return out
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Stats is the read-only observability view of the registry.
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	Rooms            map[string]int `json:"rooms"`
}

// Snapshot returns current totals for the status endpoint.
func (r *Registry) Snapshot() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make(map[string]int, len(r.rooms))
	for name, members := range r.rooms {
		rooms[name] = len(members)
	}
	return Stats{
		TotalConnections: len(r.conns),
		Rooms:            rooms,
	}
}
