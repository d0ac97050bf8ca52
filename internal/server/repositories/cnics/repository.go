// Package cnics declares the server-side repository contract for the CNIC
// allow-list.
package cnics

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository defines operations for reading and curating the allow-list.
type Repository interface {
	// Exists reports whether cnic is currently allow-listed.
	Exists(ctx context.Context, cnic string) (bool, error)

	// List returns every entry, most recently added first.
	List(ctx context.Context) ([]*models.AuthorizedCnic, error)

	// Create adds cnic on behalf of admin addedBy. A duplicate returns common.ErrConflict.
	Create(ctx context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error)

	// Delete removes cnic. Deleting a CNIC that is not listed is not an error.
	Delete(ctx context.Context, cnic string) error
}
