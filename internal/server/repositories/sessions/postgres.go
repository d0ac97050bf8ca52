package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
)

// PostgresRepository implements session persistence over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, token string, value []byte, expiresAt time.Time) error {
	query := `
		INSERT INTO sessions (token, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, token, value, expiresAt); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) ([]byte, error) {
	query := `
		SELECT value
		FROM sessions
		WHERE token = $1 AND expires_at > now()
	`
	var value []byte
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&value); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return value, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM sessions
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, dbx.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
