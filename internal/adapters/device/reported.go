// Package device implements the platform boundary for media permission and
// clipboard. The browser performs the real call and reports the outcome along
// with the intent; these types turn that report into the platform result.
package device

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkeye/PhoneCall/internal/domain"
)

const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"

	ClipboardOK          = "ok"
	ClipboardUnavailable = "unavailable"
)

// ReportedPermission answers a prompt with what the browser said.
// Anything but "granted" counts as a denial.
type ReportedPermission string

func (p ReportedPermission) Request(ctx context.Context, dev domain.Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(string(p)), PermissionGranted) {
		return nil
	}
	return fmt.Errorf("%s: %w", dev, domain.ErrPermissionDenied)
}

// ReportedClipboard succeeds only when the browser confirmed the write.
type ReportedClipboard string

func (c ReportedClipboard) WriteText(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(string(c)), ClipboardOK) {
		return nil
	}
	return domain.ErrClipboardUnavailable
}
