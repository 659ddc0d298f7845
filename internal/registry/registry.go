// Package registry tracks connected viewer sessions.
//
// The registry exclusively owns every session and its sink: nothing else
// holds a reference, so closing a sink on removal is always safe. Session
// ids come from a process-lifetime counter and are never reused.
package registry

import "sync"

// Sink accepts serialized text frames for one viewer connection.
type Sink interface {
	Send(payload []byte) error
	Close() error
}

// Session is one connected viewer.
type Session struct {
	id   uint64
	sink Sink
}

// ID returns the session's unique identifier.
func (s *Session) ID() uint64 { return s.id }

// Send pushes one serialized frame to the viewer.
func (s *Session) Send(payload []byte) error { return s.sink.Send(payload) }

// Registry is a concurrent set of live sessions. All methods are safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	nextID   uint64
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{sessions: make(map[uint64]*Session)}
}

// Insert registers a sink and returns its assigned session id. Ids are
// monotonically increasing for the life of the process.
func (r *Registry) Insert(sink Sink) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.sessions[id] = &Session{id: id, sink: sink}
	return id
}

// Remove deletes the session and closes its sink. Removing an absent id is
// a no-op: the failed-send path and the disconnect-detection path may race
// to remove the same session.
func (r *Registry) Remove(id uint64) bool {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		_ = sess.sink.Close()
	}
	return ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ForEach invokes fn once per live session, in unspecified order, holding
// the registry lock exclusively. Only the broadcast path writes to sinks,
// and it does so here, so no sink ever sees concurrent writers. fn must not
// call back into the registry.
func (r *Registry) ForEach(fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sess := range r.sessions {
		fn(sess)
	}
}
