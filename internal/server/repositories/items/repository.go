package items

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Repository persists item reports.
type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	// Get returns the item with its owner's CNIC, or common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.Item, error)
	// List returns items matching filter, newest first.
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	// Update rewrites the editable fields of item.
	Update(ctx context.Context, item *models.Item) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	SetImageKey(ctx context.Context, id int64, key *string) error
	// Delete removes the item and returns its image key, if any.
	Delete(ctx context.Context, id int64) (*string, error)
	// DeleteOlderThan purges items created before cutoff and returns the
	// number removed plus the image keys they referenced.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, []string, error)
}
