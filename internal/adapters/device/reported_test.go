package device

import (
	"context"
	"testing"

	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestReportedPermission(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ReportedPermission("granted").Request(ctx, domain.DeviceMicrophone))
	assert.NoError(t, ReportedPermission(" Granted ").Request(ctx, domain.DeviceCamera))
	assert.ErrorIs(t, ReportedPermission("denied").Request(ctx, domain.DeviceCamera), domain.ErrPermissionDenied)
	assert.ErrorIs(t, ReportedPermission("").Request(ctx, domain.DeviceCamera), domain.ErrPermissionDenied)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, ReportedPermission("granted").Request(cancelled, domain.DeviceMicrophone), context.Canceled)
}

func TestReportedClipboard(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ReportedClipboard("ok").WriteText(ctx, "ABCDEF"))
	assert.ErrorIs(t, ReportedClipboard("unavailable").WriteText(ctx, "ABCDEF"), domain.ErrClipboardUnavailable)
	assert.ErrorIs(t, ReportedClipboard("").WriteText(ctx, "ABCDEF"), domain.ErrClipboardUnavailable)
}
