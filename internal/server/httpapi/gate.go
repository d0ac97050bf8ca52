package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/session"
	"github.com/gin-gonic/gin"
)

const userContextKey = "lostfound.user"

// SessionResolver turns a cookie token into the current user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// Gate authenticates requests and enforces role and ownership rules.
// Authentication always runs first.
type Gate struct {
	sessions SessionResolver
	logger   logging.Logger
}

func NewGate(sessions SessionResolver, logger logging.Logger) *Gate {
	return &Gate{sessions: sessions, logger: logger}
}

// RequireAuthenticated resolves the session cookie and stores the user in the
// context. Requests without a valid session are aborted with 401.
func (g *Gate) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := g.sessions.ResolveSession(c.Request.Context(), session.TokenFromRequest(c))
		if err != nil {
			if errors.Is(err, common.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
				return
			}
			g.logger.Error(c.Request.Context(), "session lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuthenticated. Non-admins get 403.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

// RequireOwnership checks that the authenticated user reported the record
// owned by ownerCNIC.
func RequireOwnership(c *gin.Context, ownerCNIC string) error {
	user, ok := CurrentUser(c)
	if !ok {
		return common.ErrUnauthenticated
	}
	if user.CNIC != ownerCNIC {
		return common.ErrForbidden
	}
	return nil
}

// CurrentUser returns the user placed in the context by RequireAuthenticated.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
