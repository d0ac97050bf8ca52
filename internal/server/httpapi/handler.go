// Package httpapi exposes the lostfound server over HTTP using gin.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	"github.com/dmitrijs2005/lostfound/internal/server/session"
)

// Authenticator is the subset of services.AuthService used by the handlers.
type Authenticator interface {
	Login(ctx context.Context, req services.LoginRequest) (*models.User, error)
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, req services.RegisterAdminRequest) (*models.User, error)
	AdminExists(ctx context.Context) (bool, error)
}

// CNICRegistry manages the allow-list.
type CNICRegistry interface {
	ListAuthorizedCNICs(ctx context.Context) ([]*models.AuthorizedCnic, error)
	AuthorizeCNIC(ctx context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error)
	RevokeCNIC(ctx context.Context, cnic string) error
}

type ItemStore interface {
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	Get(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, owner *models.User, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, id int64, fields *models.Item) (*models.Item, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Item, error)
	Delete(ctx context.Context, id int64) error
	PhotoUpload(ctx context.Context, id int64) (*models.PhotoUpload, error)
	ConfirmPhoto(ctx context.Context, id int64, key string) (*models.Item, error)
}

// SessionManager issues, resolves and destroys cookie sessions.
type SessionManager interface {
	SessionResolver
	CreateSession(ctx context.Context, userID int64) (string, time.Time, error)
	DestroySession(ctx context.Context, token string) error
}

type Handler struct {
	auth     Authenticator
	cnics    CNICRegistry
	items    ItemStore
	sessions SessionManager
	cookies  session.CookieOptions
	logger   logging.Logger
}

func NewHandler(auth Authenticator, cnics CNICRegistry, items ItemStore, sessions SessionManager, cookies session.CookieOptions, logger logging.Logger) *Handler {
	return &Handler{
		auth:     auth,
		cnics:    cnics,
		items:    items,
		sessions: sessions,
		cookies:  cookies,
		logger:   logger.With("module", "httpapi"),
	}
}
