package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// ItemService manages lost and found reports. Ownership is enforced by the
// request gate before the mutating methods are called.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	photos      PhotoStorage
	logger      logging.Logger
}

// NewItemService constructs an ItemService. photos may be nil, which
// disables photo uploads.
func NewItemService(db *sql.DB, m repomanager.RepositoryManager, photos PhotoStorage, logger logging.Logger) *ItemService {
	return &ItemService{
		db:          db,
		repomanager: m,
		photos:      photos,
		logger:      logger.With("module", "items"),
	}
}

func (s *ItemService) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Items(s.db).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, item := range list {
		s.attachImageURL(ctx, item)
	}
	return list, nil
}

func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repomanager.Items(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachImageURL(ctx, item)
	return item, nil
}

// Create stores a new open report owned by owner.
func (s *ItemService) Create(ctx context.Context, owner *models.User, item *models.Item) (*models.Item, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	item.UserID = owner.ID
	item.OwnerCNIC = owner.CNIC
	item.ImageKey = nil

	created, err := s.repomanager.Items(s.db).Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "item created", "item_id", created.ID, "user_id", owner.ID)
	return created, nil
}

// Update replaces the editable fields of item id with those of fields.
func (s *ItemService) Update(ctx context.Context, id int64, fields *models.Item) (*models.Item, error) {
	if err := validateItem(fields); err != nil {
		return nil, err
	}
	fields.ID = id
	if err := s.repomanager.Items(s.db).Update(ctx, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ItemService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Item, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	if err := s.repomanager.Items(s.db).UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes item id and, best effort, its photo.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	key, err := s.repomanager.Items(s.db).Delete(ctx, id)
	if err != nil {
		return err
	}
	if key != nil {
		s.deletePhoto(ctx, *key)
	}
	s.logger.Info(ctx, "item deleted", "item_id", id)
	return nil
}

// PhotoUpload issues a presigned PUT URL for a new photo of item id. The
// item keeps its current photo until ConfirmPhoto sees the upload.
func (s *ItemService) PhotoUpload(ctx context.Context, id int64) (*models.PhotoUpload, error) {
	if s.photos == nil {
		return nil, common.ErrPhotosDisabled
	}
	if _, err := s.repomanager.Items(s.db).Get(ctx, id); err != nil {
		return nil, err
	}

	key := NewPhotoKey(id)
	url, err := s.photos.PresignPut(ctx, key)
	if err != nil {
		return nil, err
	}
	return &models.PhotoUpload{Key: key, URL: url}, nil
}

// ConfirmPhoto points item id at an uploaded key issued by PhotoUpload and
// removes the photo it replaces. Confirming the current key is a no-op.
func (s *ItemService) ConfirmPhoto(ctx context.Context, id int64, key string) (*models.Item, error) {
	if s.photos == nil {
		return nil, common.ErrPhotosDisabled
	}
	if !PhotoKeyBelongsTo(key, id) {
		return nil, invalid("photo key")
	}

	repo := s.repomanager.Items(s.db)
	item, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.ImageKey != nil && *item.ImageKey == key {
		s.attachImageURL(ctx, item)
		return item, nil
	}

	uploaded, err := s.photos.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !uploaded {
		return nil, fmt.Errorf("photo not uploaded: %w", common.ErrInvalidFormat)
	}

	previous := item.ImageKey
	if err := repo.SetImageKey(ctx, id, &key); err != nil {
		return nil, err
	}
	if previous != nil {
		s.deletePhoto(ctx, *previous)
	}
	s.logger.Info(ctx, "item photo replaced", "item_id", id)
	return s.Get(ctx, id)
}

// PurgeOlderThan deletes reports created before cutoff along with their photos.
func (s *ItemService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	n, keys, err := s.repomanager.Items(s.db).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		s.deletePhoto(ctx, k)
	}
	return n, nil
}

func (s *ItemService) attachImageURL(ctx context.Context, item *models.Item) {
	if s.photos == nil || item.ImageKey == nil {
		return
	}
	url, err := s.photos.PresignGet(ctx, *item.ImageKey)
	if err != nil {
		s.logger.Warn(ctx, "presign get failed", "item_id", item.ID, "error", err)
		return
	}
	item.ImageURL = url
}

func (s *ItemService) deletePhoto(ctx context.Context, key string) {
	if s.photos == nil {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "photo delete failed", "key", key, "error", err)
	}
}
