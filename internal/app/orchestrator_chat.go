package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
)

func (o *Orchestrator) ToggleChat(sid core.SessionID) (bool, error) {
	var open bool
	err := o.with(sid, func(s *Session) error {
		if err := s.requirePage(domain.PageGroup); err != nil {
			return err
		}
		s.chatOpen = !s.chatOpen
		open = s.chatOpen
		return nil
	})
	return open, err
}

// SendChat appends a message from the session's user. Whitespace-only text is
// ignored without a toast.
func (o *Orchestrator) SendChat(sid core.SessionID, text string) (domain.ChatMessage, error) {
	var msg domain.ChatMessage
	err := o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		if err := s.requirePage(domain.PageGroup); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.ErrEmptyMessage
		}
		if o.ChatMaxLen > 0 && utf8.RuneCountInString(text) > o.ChatMaxLen {
			s.chatDraft = text
			s.alert("Message too long", fmt.Sprintf("Keep it under %d characters", o.ChatMaxLen))
			return domain.ErrMessageTooLong
		}
		msg = domain.NewChatMessage(*s.user, text)
		s.chat = append(s.chat, msg)
		s.chatDraft = ""
		return nil
	})
	return msg, err
}
