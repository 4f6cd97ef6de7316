package app

import "github.com/dkeye/PhoneCall/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	CloseSignal
)

// Policy decides what happens when a session's event socket cannot keep up.
type Policy interface {
	OnBackPressure(sid core.SessionID, consecutiveDrops int) BackpressureAction
}

// SimplePolicy drops frames until MaxDrops in a row, then closes the socket.
// The browser falls back to plain form posts until it reconnects.
type SimplePolicy struct {
	MaxDrops int
}

func (p SimplePolicy) OnBackPressure(_ core.SessionID, drops int) BackpressureAction {
	if p.MaxDrops > 0 && drops >= p.MaxDrops {
		return CloseSignal
	}
	return DropFrame
}
