package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) adminExists(c *gin.Context) {
	exists, err := h.auth.AdminExists(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *Handler) registerAdmin(c *gin.Context) {
	var req services.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.auth.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			badRequest(c, "Admin already exists or username is taken")
			return
		}
		h.writeErrorWithConflict(c, err, http.StatusBadRequest)
		return
	}
	h.logger.Info(c.Request.Context(), "admin registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) listCNICs(c *gin.Context) {
	list, err := h.cnics.ListAuthorizedCNICs(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type authorizeCNICRequest struct {
	CNIC string `json:"cnic"`
}

func (h *Handler) authorizeCNIC(c *gin.Context) {
	var req authorizeCNICRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	admin, _ := CurrentUser(c)

	entry, err := h.cnics.AuthorizeCNIC(c.Request.Context(), req.CNIC, admin.ID)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			badRequest(c, "CNIC is already authorized")
			return
		}
		h.writeErrorWithConflict(c, err, http.StatusBadRequest)
		return
	}
	h.logger.Info(c.Request.Context(), "cnic authorized", "cnic", entry.CNIC, "added_by", admin.ID)
	c.JSON(http.StatusCreated, entry)
}

// revokeCNIC is idempotent: revoking an unknown CNIC still answers 204.
// Live sessions of the revoked user are left to expire.
func (h *Handler) revokeCNIC(c *gin.Context) {
	cnic := c.Param("cnic")
	if err := h.cnics.RevokeCNIC(c.Request.Context(), cnic); err != nil {
		h.writeErrorWithConflict(c, err, http.StatusBadRequest)
		return
	}
	h.logger.Info(c.Request.Context(), "cnic revoked", "cnic", cnic)
	c.Status(http.StatusNoContent)
}
