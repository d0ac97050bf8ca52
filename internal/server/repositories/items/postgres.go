// Package items provides the PostgreSQL-backed repository for lost and
// found item reports.
package items

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

const selectItem = `
		SELECT i.id, i.user_id, u.cnic, i.type, i.title, i.description, i.category,
		       i.location, i.contact_number, i.status, i.image_key, i.created_at, i.updated_at
		FROM items i
		JOIN users u ON u.id = i.user_id`

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts item; ID, Status and timestamps come back from the database.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (user_id, type, title, description, category, location, contact_number, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.Type, item.Title, item.Description, item.Category, item.Location,
		item.ContactNumber, item.ImageKey,
	).Scan(&item.ID, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return item, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Item, error) {
	row := r.db.QueryRowContext(ctx, selectItem+` WHERE i.id = $1`, id)

	item := &models.Item{}
	if err := scanItem(row, item); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return item, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("i.type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("i.category = $%d", len(args)))
	}

	query := selectItem
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY i.created_at DESC, i.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Item, 0)
	for rows.Next() {
		var item models.Item
		if err := scanItem(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items SET
			type = $1, title = $2, description = $3, category = $4,
			location = $5, contact_number = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.Type, item.Title, item.Description, item.Category, item.Location, item.ContactNumber, item.ID,
	).Scan(&item.UpdatedAt)
	if err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE items SET status = $1, updated_at = now() WHERE id = $2`
	return r.execOne(ctx, query, status, id)
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, id int64, key *string) error {
	query := `UPDATE items SET image_key = $1, updated_at = now() WHERE id = $2`
	return r.execOne(ctx, query, key, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*string, error) {
	query := `DELETE FROM items WHERE id = $1 RETURNING image_key`

	var key *string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&key); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return key, nil
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	query := `DELETE FROM items WHERE created_at < $1 RETURNING image_key`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to delete items: %w", err)
	}
	defer rows.Close()

	var (
		n    int64
		keys []string
	)
	for rows.Next() {
		var key *string
		if err := rows.Scan(&key); err != nil {
			return 0, nil, err
		}
		n++
		if key != nil {
			keys = append(keys, *key)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}
	return n, keys, nil
}

// execOne runs an UPDATE expected to touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbx.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner, item *models.Item) error {
	return s.Scan(
		&item.ID, &item.UserID, &item.OwnerCNIC, &item.Type, &item.Title, &item.Description,
		&item.Category, &item.Location, &item.ContactNumber, &item.Status, &item.ImageKey,
		&item.CreatedAt, &item.UpdatedAt,
	)
}
