package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// inbound is every field any intent frame may carry.
type inbound struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Permission string `json:"permission,omitempty"`
	Clipboard  string `json:"clipboard,omitempty"`
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.Sessions.UnbindSignal(sid, c)
		cancel()
		c.Close()
	}()

	pongWait := ctl.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		ctl.handleSignal(ctx, sid, c, data)
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(sid, c, "bad_payload")
		return
	}

	if msg.Type != "ping" && ctl.Limiter != nil && !ctl.Limiter.Allow(string(sid)) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", msg.Type).Msg("rate limited")
		ctl.sendError(sid, c, "rate-limited")
		return
	}

	switch msg.Type {
	case "ping":
		ctl.handlePing(sid, c)
	case "whoami":
		ctl.handleWhoAmI(sid, c)
	case "state":
		ctl.sendState(sid, c)
	case "toggle_mic":
		ctl.handleToggleMic(ctx, sid, c, msg)
	case "toggle_camera":
		ctl.handleToggleCamera(ctx, sid, c, msg)
	case "toggle_chat":
		ctl.handleToggleChat(sid, c)
	case "chat":
		ctl.handleChat(sid, c, msg)
	case "copy_code":
		ctl.handleCopyCode(ctx, sid, c, msg)
	case "leave":
		ctl.handleLeave(sid, c)
	default:
		log.Warn().Str("module", "signal").Str("type", msg.Type).Msg("unknown signal")
		ctl.sendError(sid, c, "unknown_type")
	}
}

// sendJSON queues v for c and applies the backpressure policy when the queue is full.
func (ctl *SignalWSController) sendJSON(sid core.SessionID, c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	err = c.TrySend(b)
	switch {
	case err == nil:
		c.drops.Store(0)
	case errors.Is(err, ErrBackpressure):
		drops := int(c.drops.Add(1))
		if ctl.Orch.Policy.OnBackPressure(sid, drops) == app.CloseSignal {
			log.Warn().Str("module", "signal").Str("sid", string(sid)).Int("drops", drops).Msg("closing slow signal")
			c.Close()
		}
	}
}
