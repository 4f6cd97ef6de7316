package http

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/dkeye/PhoneCall/internal/adapters/device"
	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/dkeye/PhoneCall/internal/middleware"
	"github.com/dkeye/PhoneCall/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	orch *app.Orchestrator
}

type profileForm struct {
	Name   string `form:"name" json:"name"`
	Phone  string `form:"phone" json:"phone"`
	Avatar string `form:"avatar" json:"avatar"`
}

func (f profileForm) toApp() app.ProfileForm {
	return app.ProfileForm{Name: f.Name, Phone: f.Phone, Avatar: f.Avatar}
}

type codeForm struct {
	Code string `form:"code" json:"code"`
}

type permissionForm struct {
	Permission string `form:"permission"`
}

type clipboardForm struct {
	Clipboard string `form:"clipboard"`
}

type chatForm struct {
	Text string `form:"text"`
}

func render(c *gin.Context, status int, comp templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	if err := comp.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("render page")
	}
}

func (h *handlers) index(c *gin.Context) {
	render(c, http.StatusOK, view.Page(h.orch.State(middleware.SID(c), true)))
}

// throttled drops a form post over budget with a toast instead of a bare 429.
func (h *handlers) throttled(c *gin.Context) {
	h.orch.Throttled(middleware.SID(c))
	c.Redirect(http.StatusSeeOther, "/")
	c.Abort()
}

// intent runs a form post and sends the browser back to the page.
// Failures reach the user as toasts on the next render.
func (h *handlers) intent(fn func(c *gin.Context, sid core.SessionID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := middleware.SID(c)
		if err := fn(c, sid); err != nil {
			log.Debug().Err(err).Str("module", "adapters.http").Str("sid", string(sid)).Str("path", c.FullPath()).Msg("intent failed")
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (h *handlers) authenticate(c *gin.Context, sid core.SessionID) error {
	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	return h.orch.Authenticate(sid, f.toApp())
}

func (h *handlers) navigate(c *gin.Context, sid core.SessionID) error {
	page, ok := domain.ParsePage(c.Param("page"))
	if !ok {
		return domain.ErrInvalidState
	}
	return h.orch.Navigate(sid, page)
}

func (h *handlers) startEdit(_ *gin.Context, sid core.SessionID) error {
	return h.orch.StartEditProfile(sid)
}

func (h *handlers) cancelEdit(_ *gin.Context, sid core.SessionID) error {
	return h.orch.CancelEditProfile(sid)
}

func (h *handlers) updateProfile(c *gin.Context, sid core.SessionID) error {
	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	return h.orch.UpdateProfile(sid, f.toApp())
}

func (h *handlers) createGroup(_ *gin.Context, sid core.SessionID) error {
	_, err := h.orch.CreateGroup(sid)
	return err
}

func (h *handlers) openJoin(_ *gin.Context, sid core.SessionID) error {
	return h.orch.OpenJoinDialog(sid)
}

func (h *handlers) closeJoin(_ *gin.Context, sid core.SessionID) error {
	return h.orch.CloseJoinDialog(sid)
}

func (h *handlers) joinGroup(c *gin.Context, sid core.SessionID) error {
	var f codeForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	_, err := h.orch.JoinGroup(sid, f.Code)
	return err
}

func (h *handlers) leaveGroup(_ *gin.Context, sid core.SessionID) error {
	return h.orch.LeaveGroup(sid)
}

func (h *handlers) copyCode(c *gin.Context, sid core.SessionID) error {
	var f clipboardForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	return h.orch.CopyGroupCode(c.Request.Context(), sid, device.ReportedClipboard(f.Clipboard))
}

func (h *handlers) toggleMic(c *gin.Context, sid core.SessionID) error {
	var f permissionForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	_, err := h.orch.ToggleMic(c.Request.Context(), sid, device.ReportedPermission(f.Permission))
	return err
}

func (h *handlers) toggleCamera(c *gin.Context, sid core.SessionID) error {
	var f permissionForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	_, err := h.orch.ToggleCamera(c.Request.Context(), sid, device.ReportedPermission(f.Permission))
	return err
}

func (h *handlers) toggleChat(_ *gin.Context, sid core.SessionID) error {
	_, err := h.orch.ToggleChat(sid)
	return err
}

func (h *handlers) sendChat(c *gin.Context, sid core.SessionID) error {
	var f chatForm
	if err := c.ShouldBind(&f); err != nil {
		return err
	}
	_, err := h.orch.SendChat(sid, f.Text)
	return err
}
