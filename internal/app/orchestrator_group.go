package app

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateGroup opens a new call with the session's user as sole member.
func (o *Orchestrator) CreateGroup(sid core.SessionID) (domain.Group, error) {
	var g domain.Group
	err := o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		if err := s.requirePage(domain.PageHome); err != nil {
			return err
		}
		created, err := o.Groups.Create(domain.NewMember(*s.user))
		if err != nil {
			s.alert("Error", "Could not create a group, try again")
			return fmt.Errorf("create group: %w", err)
		}
		g = created
		s.enterGroup(created.Code, 0)
		s.info("Group created!", "Group code: "+string(created.Code))
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("code", string(created.Code)).Msg("created group")
		return nil
	})
	return g, err
}

func (o *Orchestrator) OpenJoinDialog(sid core.SessionID) error {
	return o.setJoinDialog(sid, true)
}

func (o *Orchestrator) CloseJoinDialog(sid core.SessionID) error {
	return o.setJoinDialog(sid, false)
}

func (o *Orchestrator) setJoinDialog(sid core.SessionID, open bool) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		if err := s.requirePage(domain.PageHome); err != nil {
			return err
		}
		s.joinOpen = open
		return nil
	})
}

// SetJoinCode buffers the join input the way the code field does: upper case, capped length.
func (o *Orchestrator) SetJoinCode(sid core.SessionID, raw string) {
	_ = o.with(sid, func(s *Session) error {
		s.joinCode = bufferCode(raw, o.codeLen())
		return nil
	})
}

// bufferCode trims and upper-cases raw, then caps it at n runes.
func bufferCode(raw string, n int) string {
	code := string(domain.NormalizeCode(raw))
	if utf8.RuneCountInString(code) > n {
		code = string([]rune(code)[:n])
	}
	return code
}

// JoinGroup appends the session's user to the group under code.
func (o *Orchestrator) JoinGroup(sid core.SessionID, raw string) (domain.Group, error) {
	var g domain.Group
	err := o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		if err := s.requirePage(domain.PageHome); err != nil {
			return err
		}
		s.joinCode = bufferCode(raw, o.codeLen())
		code := domain.GroupCode(s.joinCode)
		if code == "" {
			s.alert("Error", "Enter a group code")
			return fmt.Errorf("join: code: %w", domain.ErrMissingField)
		}
		joined, slot, err := o.takeSeat(s, code)
		switch {
		case errors.Is(err, domain.ErrGroupNotFound):
			s.alert("Group not found", "No group with code "+string(code))
			return err
		case errors.Is(err, domain.ErrGroupFull):
			s.alert("Group is full", fmt.Sprintf("A call holds at most %d people", o.capacityOf(code)))
			return err
		case err != nil:
			s.alert("Error", err.Error())
			return err
		}
		g = joined
		s.joinOpen = false
		s.joinCode = ""
		s.enterGroup(code, slot)
		s.info("You joined the group!", "Code: "+string(code))
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("code", string(code)).Int("count", len(joined.Members)).Msg("joined group")
		return nil
	})
	return g, err
}

// takeSeat puts the session into code. A session that held a seat there before
// gets it back, refreshed with its current profile, instead of a new record.
func (o *Orchestrator) takeSeat(s *Session, code domain.GroupCode) (domain.Group, int, error) {
	if slot, ok := s.seats[code]; ok {
		g, err := o.Groups.UpdateMember(code, slot, func(m *domain.Member) {
			*m = domain.NewMember(*s.user)
		})
		if err == nil {
			return g, slot, nil
		}
		delete(s.seats, code)
	}
	return o.Groups.Join(code, domain.NewMember(*s.user))
}

func (o *Orchestrator) capacityOf(code domain.GroupCode) int {
	if g, ok := o.Groups.Get(code); ok {
		return g.Capacity
	}
	return domain.DefaultGroupCapacity
}

// LeaveGroup returns to home. The registry entry and the member record stay.
func (o *Orchestrator) LeaveGroup(sid core.SessionID) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requirePage(domain.PageGroup); err != nil {
			return err
		}
		code := s.group
		s.resetCall()
		s.page = domain.PageHome
		s.info("You left the group", "")
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("code", string(code)).Msg("left group")
		return nil
	})
}

// CopyGroupCode writes the current code to the clipboard boundary.
func (o *Orchestrator) CopyGroupCode(ctx context.Context, sid core.SessionID, clip core.Clipboard) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requirePage(domain.PageGroup); err != nil {
			return err
		}
		if err := clip.WriteText(ctx, string(s.group)); err != nil {
			s.alert("Copy failed", "Clipboard is not available")
			if !errors.Is(err, domain.ErrClipboardUnavailable) {
				err = fmt.Errorf("%w: %w", domain.ErrClipboardUnavailable, err)
			}
			return err
		}
		s.info("Code copied!", string(s.group))
		return nil
	})
}

func (s *Session) enterGroup(code domain.GroupCode, slot int) {
	s.resetCall()
	s.group = code
	s.slot = slot
	s.page = domain.PageGroup
	if s.seats == nil {
		s.seats = make(map[domain.GroupCode]int)
	}
	s.seats[code] = slot
}
