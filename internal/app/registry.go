package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session *Session
	Signal  core.SignalConnection
	Cancel  context.CancelFunc
}

// Registry owns every live browser session of this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		now:      time.Now,
	}
}

func (r *Registry) GetOrCreate(sid core.SessionID) *Session {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if ok {
		e.Session.touch(r.now())
		return e.Session
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.sessions[sid]; ok {
		e.Session.touch(r.now())
		return e.Session
	}
	s := newSession(sid)
	s.lastSeen = r.now()
	r.sessions[sid] = &sessionEntry{Session: s}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("created new session")
	return s
}

// BindSignal attaches the session's event socket, replacing and cancelling an older one.
func (r *Registry) BindSignal(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.GetOrCreate(sid)

	r.mu.Lock()
	e := r.sessions[sid]
	oldCancel := e.Cancel
	e.Signal = conn
	e.Cancel = cancel
	r.mu.Unlock()

	if oldCancel != nil {
		oldCancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.Signal == nil {
		return nil, false
	}
	return e.Signal, true
}

// UnbindSignal detaches conn if it is still the bound one.
func (r *Registry) UnbindSignal(sid core.SessionID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok && e.Signal == conn {
		e.Signal = nil
		e.Cancel = nil
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind signal")
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than ttl and returns how many went.
// Group entries the sessions joined stay in the group registry.
func (r *Registry) Sweep(ttl time.Duration) int {
	now := r.now()
	r.mu.Lock()
	var cancels []context.CancelFunc
	evicted := 0
	for sid, e := range r.sessions {
		if e.Session.idleSince(now) <= ttl {
			continue
		}
		if e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
		delete(r.sessions, sid)
		evicted++
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if evicted > 0 {
		log.Info().Str("module", "app.registry").Int("evicted", evicted).Msg("swept idle sessions")
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.registry").Msg("sweeper stopped")
			return
		case <-ticker.C:
			r.Sweep(ttl)
		}
	}
}
