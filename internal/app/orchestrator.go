package app

import (
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator applies user intents to a session and the shared group registry.
// Every operation runs with the session lock held, so intents from one browser
// are serialized while different browsers proceed in parallel.
type Orchestrator struct {
	Sessions   *Registry
	Groups     core.GroupRegistry
	Policy     Policy
	ChatMaxLen int
	CodeLen    int
}

func NewOrchestrator(sessions *Registry, groups core.GroupRegistry) *Orchestrator {
	return &Orchestrator{
		Sessions:   sessions,
		Groups:     groups,
		Policy:     SimplePolicy{MaxDrops: 8},
		ChatMaxLen: domain.DefaultChatMaxLen,
		CodeLen:    domain.DefaultCodeLength,
	}
}

func (o *Orchestrator) with(sid core.SessionID, fn func(s *Session) error) error {
	s := o.Sessions.GetOrCreate(sid)
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s)
	if err != nil {
		log.Debug().Err(err).Str("module", "app.orch").Str("sid", string(sid)).Str("page", string(s.page)).Msg("intent rejected")
	}
	return err
}

// State renders the session. With drain set, pending toasts are consumed.
func (o *Orchestrator) State(sid core.SessionID, drain bool) Snapshot {
	var snap Snapshot
	_ = o.with(sid, func(s *Session) error {
		snap = s.snapshot(o.Groups, drain)
		snap.CodeLength = o.codeLen()
		return nil
	})
	return snap
}

func (o *Orchestrator) codeLen() int {
	if o.CodeLen > 0 {
		return o.CodeLen
	}
	return domain.DefaultCodeLength
}

// Throttled tells the session its intent was dropped for coming too fast.
func (o *Orchestrator) Throttled(sid core.SessionID) {
	_ = o.with(sid, func(s *Session) error {
		s.alert("Slow down", "Too many actions, try again in a moment")
		return nil
	})
}
