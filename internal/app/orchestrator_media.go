package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/rs/zerolog/log"
)

var deviceLabels = map[domain.Device]string{
	domain.DeviceMicrophone: "Microphone",
	domain.DeviceCamera:     "Camera",
}

func (o *Orchestrator) ToggleMic(ctx context.Context, sid core.SessionID, prompt core.PermissionPrompt) (bool, error) {
	return o.toggleDevice(ctx, sid, domain.DeviceMicrophone, prompt)
}

func (o *Orchestrator) ToggleCamera(ctx context.Context, sid core.SessionID, prompt core.PermissionPrompt) (bool, error) {
	return o.toggleDevice(ctx, sid, domain.DeviceCamera, prompt)
}

// toggleDevice flips a device flag. Turning on asks prompt first; a denial leaves it off.
// The session lock is held across the prompt so the answer applies to the state it was asked for.
func (o *Orchestrator) toggleDevice(ctx context.Context, sid core.SessionID, dev domain.Device, prompt core.PermissionPrompt) (bool, error) {
	var on bool
	err := o.with(sid, func(s *Session) error {
		if err := s.requirePage(domain.PageGroup); err != nil {
			return err
		}
		flag := &s.micOn
		if dev == domain.DeviceCamera {
			flag = &s.cameraOn
		}
		label := deviceLabels[dev]

		if !*flag {
			if err := prompt.Request(ctx, dev); err != nil {
				s.alert("Permission denied", fmt.Sprintf("Allow %s access in your browser settings", dev))
				if !errors.Is(err, domain.ErrPermissionDenied) {
					err = fmt.Errorf("%s: %w: %w", dev, domain.ErrPermissionDenied, err)
				}
				return err
			}
		}
		*flag = !*flag
		on = *flag

		if _, err := o.Groups.UpdateMember(s.group, s.slot, func(m *domain.Member) {
			if dev == domain.DeviceCamera {
				m.CameraOn = on
			} else {
				m.MicOn = on
			}
		}); err != nil {
			log.Warn().Err(err).Str("module", "app.orch").Str("sid", string(sid)).Msg("member record not updated")
		}

		if on {
			s.info(label+" on", "")
		} else {
			s.info(label+" off", "")
		}
		log.Debug().Str("module", "app.orch").Str("sid", string(sid)).Str("device", string(dev)).Bool("on", on).Msg("device toggled")
		return nil
	})
	return on, err
}
