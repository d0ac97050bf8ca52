package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	"github.com/dmitrijs2005/lostfound/internal/server/session"
	"github.com/gin-gonic/gin"
)

func (h *Handler) login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, user)
}

// startSession creates a session for user and sets the cookie. It writes the
// error response itself and reports whether the caller may continue.
func (h *Handler) startSession(c *gin.Context, user *models.User) bool {
	token, expiresAt, err := h.sessions.CreateSession(c.Request.Context(), user.ID)
	if err != nil {
		h.writeError(c, err)
		return false
	}
	session.SetCookie(c, token, expiresAt, h.cookies)
	return true
}

func (h *Handler) logout(c *gin.Context) {
	if token := session.TokenFromRequest(c); token != "" {
		if err := h.sessions.DestroySession(c.Request.Context(), token); err != nil {
			h.logger.Warn(c.Request.Context(), "destroy session failed", "error", err)
		}
	}
	session.ClearCookie(c, h.cookies)
	c.Status(http.StatusOK)
}

func (h *Handler) currentUser(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		h.writeError(c, common.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}

// register self-registers a non-admin user and logs them in.
func (h *Handler) register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.writeErrorWithConflict(c, err, http.StatusBadRequest)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, user)
}
