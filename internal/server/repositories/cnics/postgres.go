package cnics

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements the allow-list over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, cnic string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM authorized_cnics WHERE cnic = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, cnic).Scan(&exists); err != nil {
		return false, dbx.TranslateError(err)
	}
	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.AuthorizedCnic, error) {
	query := `
		SELECT id, cnic, added_by, added_at
		FROM authorized_cnics
		ORDER BY added_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select authorized cnics: %w", err)
	}
	defer rows.Close()

	result := make([]*models.AuthorizedCnic, 0)
	for rows.Next() {
		var item models.AuthorizedCnic
		if err := rows.Scan(&item.ID, &item.CNIC, &item.AddedBy, &item.AddedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error) {
	query := `
		INSERT INTO authorized_cnics (cnic, added_by)
		VALUES ($1, $2)
		RETURNING id, added_at
	`
	entry := &models.AuthorizedCnic{CNIC: cnic, AddedBy: addedBy}
	if err := r.db.QueryRowContext(ctx, query, cnic, addedBy).Scan(&entry.ID, &entry.AddedAt); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return entry, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, cnic string) error {
	query := `
		DELETE FROM authorized_cnics
		WHERE cnic = $1
	`
	if _, err := r.db.ExecContext(ctx, query, cnic); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}
