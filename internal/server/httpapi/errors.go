package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error to an HTTP status and client message.
// conflictStatus lets the admin and registration endpoints report duplicates as 400.
func errorStatus(err error, conflictStatus int) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrNotAuthorized):
		return http.StatusUnauthorized, "Your CNIC is not authorized"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrConflict):
		return conflictStatus, "Already exists"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrPhotosDisabled):
		return http.StatusServiceUnavailable, "Photo storage is not configured"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	h.writeErrorWithConflict(c, err, http.StatusConflict)
}

func (h *Handler) writeErrorWithConflict(c *gin.Context, err error, conflictStatus int) {
	status, msg := errorStatus(err, conflictStatus)
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
