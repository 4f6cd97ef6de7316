package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/dkeye/PhoneCall/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGroupFull), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrFieldTooLong),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrMessageTooLong),
		errors.Is(err, domain.ErrPermissionDenied),
		errors.Is(err, domain.ErrClipboardUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errorStatus(err), gin.H{"error": domain.ErrorCode(err)})
}

func (h *handlers) apiState(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.State(middleware.SID(c), true))
}

func (h *handlers) apiGetGroup(c *gin.Context) {
	g, ok := h.orch.Groups.Get(domain.NormalizeCode(c.Param("code")))
	if !ok {
		abortWithError(c, domain.ErrGroupNotFound)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *handlers) apiCreateGroup(c *gin.Context) {
	g, err := h.orch.CreateGroup(middleware.SID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *handlers) apiJoinGroup(c *gin.Context) {
	var f codeForm
	if err := c.ShouldBindJSON(&f); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	g, err := h.orch.JoinGroup(middleware.SID(c), f.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
