package mcp

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionRegistry tracks open MCP sessions and mirrors the count into an
// optional gauge.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	active   prometheus.Gauge
}

// NewSessionRegistry accepts a nil gauge.
func NewSessionRegistry(active prometheus.Gauge) *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]time.Time), active: active}
}

func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = time.Now()
	r.publishLocked()
}

// Unregister reports whether the session was known.
func (r *SessionRegistry) Unregister(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	r.publishLocked()
	return true
}

func (r *SessionRegistry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) publishLocked() {
	if r.active != nil {
		r.active.Set(float64(len(r.sessions)))
	}
}
