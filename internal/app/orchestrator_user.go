package app

import (
	"errors"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/rs/zerolog/log"
)

// Authenticate signs the session in with the auth form values.
func (o *Orchestrator) Authenticate(sid core.SessionID, form ProfileForm) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requirePage(domain.PageAuth); err != nil {
			return err
		}
		s.form = form
		user, err := domain.NewUserProfile(form.Name, form.Phone, form.Avatar)
		if err != nil {
			profileError(s, err)
			return err
		}
		s.user = user
		s.page = domain.PageHome
		s.info("You are signed in!", "Welcome to PhoneCall")
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("name", user.Name).Msg("authenticated")
		return nil
	})
}

// Navigate moves between home and profile; other pages are reached through their operations.
func (o *Orchestrator) Navigate(sid core.SessionID, to domain.Page) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		switch {
		case s.page == domain.PageHome && to == domain.PageProfile:
		case s.page == domain.PageProfile && to == domain.PageHome:
			s.editing = false
		case s.page == to:
			return nil
		default:
			return domain.ErrInvalidState
		}
		s.page = to
		return nil
	})
}

// StartEditProfile pre-fills the edit form from the current profile.
func (o *Orchestrator) StartEditProfile(sid core.SessionID) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		if err := s.requirePage(domain.PageProfile); err != nil {
			return err
		}
		s.form = ProfileForm{Name: s.user.Name, Phone: s.user.Phone, Avatar: s.user.AvatarURL}
		s.editing = true
		return nil
	})
}

func (o *Orchestrator) CancelEditProfile(sid core.SessionID) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requirePage(domain.PageProfile); err != nil {
			return err
		}
		s.editing = false
		return nil
	})
}

// UpdateProfile saves the edit form. An empty avatar keeps the current one.
func (o *Orchestrator) UpdateProfile(sid core.SessionID, form ProfileForm) error {
	return o.with(sid, func(s *Session) error {
		if err := s.requireUser(); err != nil {
			return err
		}
		if err := s.requirePage(domain.PageProfile); err != nil {
			return err
		}
		if !s.editing {
			return domain.ErrInvalidState
		}
		s.form = form
		if err := s.user.Update(form.Name, form.Phone, form.Avatar); err != nil {
			profileError(s, err)
			return err
		}
		s.editing = false
		s.info("Profile updated!", "")
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("name", s.user.Name).Msg("profile updated")
		return nil
	})
}

func profileError(s *Session, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		s.alert("Error", "Fill in all fields")
	case errors.Is(err, domain.ErrFieldTooLong):
		s.alert("Error", "One of the fields is too long")
	default:
		s.alert("Error", err.Error())
	}
}
