// Package users declares the user repository contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository reads and writes user accounts.
type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A CNIC, username or
	// second-admin collision returns common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByCNIC(ctx context.Context, cnic string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	AdminExists(ctx context.Context) (bool, error)
}
