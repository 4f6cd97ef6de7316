package app

import (
	"slices"
	"sync"
	"time"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
)

// ProfileForm buffers the auth and profile-edit inputs between renders.
type ProfileForm struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}

// Session is the state of one browser session. All fields are guarded by mu.
type Session struct {
	mu sync.Mutex

	id       core.SessionID
	page     domain.Page
	user     *domain.UserProfile
	form     ProfileForm
	editing  bool
	lastSeen time.Time

	joinOpen bool
	joinCode string

	group    domain.GroupCode
	slot     int
	micOn    bool
	cameraOn bool

	// seats remembers the slot this session holds in every group it entered.
	seats map[domain.GroupCode]int

	chatOpen  bool
	chat      []domain.ChatMessage
	chatDraft string

	toasts []domain.Notification
}

func newSession(sid core.SessionID) *Session {
	return &Session{id: sid, page: domain.PageAuth, slot: -1, lastSeen: time.Now()}
}

func (s *Session) ID() core.SessionID { return s.id }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) notify(v domain.Variant, title, desc string) {
	s.toasts = append(s.toasts, domain.Notification{Title: title, Description: desc, Variant: v})
}

func (s *Session) info(title, desc string)  { s.notify(domain.VariantDefault, title, desc) }
func (s *Session) alert(title, desc string) { s.notify(domain.VariantDestructive, title, desc) }

func (s *Session) requireUser() error {
	if s.user == nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

func (s *Session) requirePage(p domain.Page) error {
	if s.page != p {
		return domain.ErrInvalidState
	}
	return nil
}

// resetCall drops everything scoped to the active call.
func (s *Session) resetCall() {
	s.group = ""
	s.slot = -1
	s.micOn = false
	s.cameraOn = false
	s.chatOpen = false
	s.chat = nil
	s.chatDraft = ""
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	SessionID      core.SessionID        `json:"session_id"`
	Page           domain.Page           `json:"page"`
	User           *domain.UserProfile   `json:"user,omitempty"`
	Form           ProfileForm           `json:"form"`
	EditingProfile bool                  `json:"editing_profile"`
	JoinDialogOpen bool                  `json:"join_dialog_open"`
	JoinCode       string                `json:"join_code"`
	CodeLength     int                   `json:"code_length"`
	Group          *domain.Group         `json:"group,omitempty"`
	MicOn          bool                  `json:"mic_on"`
	CameraOn       bool                  `json:"camera_on"`
	ChatOpen       bool                  `json:"chat_open"`
	Chat           []domain.ChatMessage  `json:"chat"`
	ChatDraft      string                `json:"chat_draft"`
	Toasts         []domain.Notification `json:"toasts"`
}

// snapshot must be called with mu held. drain consumes pending toasts.
func (s *Session) snapshot(groups core.GroupRegistry, drain bool) Snapshot {
	snap := Snapshot{
		SessionID:      s.id,
		Page:           s.page,
		Form:           s.form,
		EditingProfile: s.editing,
		JoinDialogOpen: s.joinOpen,
		JoinCode:       s.joinCode,
		MicOn:          s.micOn,
		CameraOn:       s.cameraOn,
		ChatOpen:       s.chatOpen,
		Chat:           slices.Clone(s.chat),
		ChatDraft:      s.chatDraft,
		Toasts:         slices.Clone(s.toasts),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.group != "" {
		if g, ok := groups.Get(s.group); ok {
			snap.Group = &g
		}
	}
	if drain {
		s.toasts = nil
	}
	return snap
}
