package signal

import (
	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/core"
)

func (ctl *SignalWSController) handlePing(sid core.SessionID, conn *WsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(sid, conn, resp)
}

func (ctl *SignalWSController) sendError(sid core.SessionID, conn *WsSignalConn, code string) {
	ctl.sendJSON(sid, conn, map[string]any{
		"type":  "error",
		"error": code,
	})
}

// sendState pushes the session snapshot and consumes its pending toasts.
func (ctl *SignalWSController) sendState(sid core.SessionID, conn *WsSignalConn) {
	resp := struct {
		Type  string       `json:"type"`
		State app.Snapshot `json:"state"`
	}{
		Type:  "state",
		State: ctl.Orch.State(sid, true),
	}
	ctl.sendJSON(sid, conn, resp)
}
