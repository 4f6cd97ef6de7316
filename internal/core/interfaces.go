package core

import (
	"context"

	"github.com/dkeye/PhoneCall/internal/domain"
)

type SessionID string

// GroupInfo is a read-only listing row.
type GroupInfo struct {
	Code        domain.GroupCode `json:"code"`
	MemberCount int              `json:"member_count"`
}

// GroupRegistry maps group codes to capacity-bounded, insertion-ordered member lists.
// Entries are never removed. Every returned Group is a copy.
type GroupRegistry interface {
	// Create stores a new entry whose sole member is creator.
	Create(creator domain.Member) (domain.Group, error)
	// Join appends m and returns the updated snapshot plus m's slot index.
	// Fails with ErrGroupNotFound or ErrGroupFull without mutating anything.
	Join(code domain.GroupCode, m domain.Member) (domain.Group, int, error)
	Get(code domain.GroupCode) (domain.Group, bool)
	// UpdateMember mutates the member at slot idx in place.
	UpdateMember(code domain.GroupCode, idx int, fn func(*domain.Member)) (domain.Group, error)
	List() []GroupInfo
}

// PermissionPrompt asks the platform for access to a media device.
// A nil error means granted.
type PermissionPrompt interface {
	Request(ctx context.Context, device domain.Device) error
}

// Clipboard writes text to the platform clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}
