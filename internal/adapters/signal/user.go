package signal

import (
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID, conn *WsSignalConn) {
	snap := ctl.Orch.State(sid, false)

	resp := struct {
		Type  string              `json:"type"`
		SID   core.SessionID      `json:"sid"`
		Page  domain.Page         `json:"page"`
		User  *domain.UserProfile `json:"user,omitempty"`
		Group domain.GroupCode    `json:"group,omitempty"`
	}{
		Type: "whoami",
		SID:  sid,
		Page: snap.Page,
		User: snap.User,
	}
	if snap.Group != nil {
		resp.Group = snap.Group.Code
	}
	ctl.sendJSON(sid, conn, resp)
}
