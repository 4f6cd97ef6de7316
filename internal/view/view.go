// Package view renders the four PhoneCall screens as templ components.
// Components are stateless: they read a session snapshot and emit intents as form posts.
package view

//go:generate templ generate

import (
	"github.com/a-h/templ"
	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/domain"
)

// Page picks the screen for the session's current page.
func Page(snap app.Snapshot) templ.Component {
	var body templ.Component
	switch snap.Page {
	case domain.PageHome:
		body = Home(snap)
	case domain.PageProfile:
		body = Profile(snap)
	case domain.PageGroup:
		body = Group(snap)
	default:
		body = Auth(snap)
	}
	return Layout(string(snap.Page), snap.Toasts, body)
}

func groupCode(snap app.Snapshot) string {
	if snap.Group == nil {
		return ""
	}
	return string(snap.Group.Code)
}

func groupMembers(snap app.Snapshot) []domain.Member {
	if snap.Group == nil {
		return nil
	}
	return snap.Group.Members
}

func switchLabel(label string, on bool) string {
	if on {
		return label + " on"
	}
	return label + " off"
}
