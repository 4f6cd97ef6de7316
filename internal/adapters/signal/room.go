package signal

import (
	"context"
	"errors"

	"github.com/dkeye/PhoneCall/internal/adapters/device"
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/rs/zerolog/log"
)

// reply answers an intent: an error frame on failure, then the fresh state.
func (ctl *SignalWSController) reply(sid core.SessionID, conn *WsSignalConn, intent string, err error) {
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("intent", intent).Msg("intent failed")
		ctl.sendError(sid, conn, domain.ErrorCode(err))
	}
	ctl.sendState(sid, conn)
}

func (ctl *SignalWSController) handleToggleMic(ctx context.Context, sid core.SessionID, conn *WsSignalConn, msg inbound) {
	_, err := ctl.Orch.ToggleMic(ctx, sid, device.ReportedPermission(msg.Permission))
	ctl.reply(sid, conn, msg.Type, err)
}

func (ctl *SignalWSController) handleToggleCamera(ctx context.Context, sid core.SessionID, conn *WsSignalConn, msg inbound) {
	_, err := ctl.Orch.ToggleCamera(ctx, sid, device.ReportedPermission(msg.Permission))
	ctl.reply(sid, conn, msg.Type, err)
}

func (ctl *SignalWSController) handleToggleChat(sid core.SessionID, conn *WsSignalConn) {
	_, err := ctl.Orch.ToggleChat(sid)
	ctl.reply(sid, conn, "toggle_chat", err)
}

func (ctl *SignalWSController) handleChat(sid core.SessionID, conn *WsSignalConn, msg inbound) {
	_, err := ctl.Orch.SendChat(sid, msg.Text)
	if errors.Is(err, domain.ErrEmptyMessage) {
		return
	}
	ctl.reply(sid, conn, msg.Type, err)
}

func (ctl *SignalWSController) handleCopyCode(ctx context.Context, sid core.SessionID, conn *WsSignalConn, msg inbound) {
	err := ctl.Orch.CopyGroupCode(ctx, sid, device.ReportedClipboard(msg.Clipboard))
	ctl.reply(sid, conn, msg.Type, err)
}

// handleLeave returns the session to home; the socket stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID, conn *WsSignalConn) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	err := ctl.Orch.LeaveGroup(sid)
	ctl.reply(sid, conn, "leave", err)
}
