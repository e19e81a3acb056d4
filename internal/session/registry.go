package session

import (
	"sort"
	"sync"
	"time"
)

// Session is one live connection bound to an authenticated user.
type Session struct {
	ConnectionID string
	UserID       int64
	ConnectedAt  time.Time
}

// Registry tracks live sessions with a forward index (connection -> session)
// and a reverse index (user -> connections). Both are only ever touched under mu.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	byUser   map[int64]map[string]struct{}
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		byUser:   make(map[int64]map[string]struct{}),
		now:      time.Now,
	}
}

// Register inserts the session or replaces an existing one with the same
// connection id, moving it to userID if it belonged to someone else.
func (r *Registry) Register(connectionID string, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessions[connectionID]; ok {
		r.dropReverse(prev.UserID, connectionID)
	}

	r.sessions[connectionID] = Session{
		ConnectionID: connectionID,
		UserID:       userID,
		ConnectedAt:  r.now(),
	}

	conns, ok := r.byUser[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.byUser[userID] = conns
	}
	conns[connectionID] = struct{}{}
}

// Unregister removes the session and returns the user it belonged to.
// ok is false when the connection was not registered.
func (r *Registry) Unregister(connectionID string) (userID int64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connectionID]
	if !ok {
		return 0, false
	}
	delete(r.sessions, connectionID)
	r.dropReverse(s.UserID, connectionID)
	return s.UserID, true
}

// dropReverse must be called with mu held.
func (r *Registry) dropReverse(userID int64, connectionID string) {
	conns, ok := r.byUser[userID]
	if !ok {
		return
	}
	delete(conns, connectionID)
	if len(conns) == 0 {
		delete(r.byUser, userID)
	}
}

func (r *Registry) Session(connectionID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[connectionID]
	return s, ok
}

// SessionsFor returns a sorted copy of the user's connection ids.
func (r *Registry) SessionsFor(userID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionsForLocked(userID)
}

func (r *Registry) sessionsForLocked(userID int64) []string {
	conns := r.byUser[userID]
	out := make([]string, 0, len(conns))
	for id := range conns {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) IsOnline(userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// OnlineUserIDs is a sorted snapshot, not a live view.
func (r *Registry) OnlineUserIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.byUser))
	for id := range r.byUser {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RouteTargets resolves both sides of a routing decision under one lock so a
// concurrent register/unregister cannot interleave between the two lookups.
func (r *Registry) RouteTargets(from, to int64) (toConns, fromConns []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionsForLocked(to), r.sessionsForLocked(from)
}

func (r *Registry) ConnectionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
