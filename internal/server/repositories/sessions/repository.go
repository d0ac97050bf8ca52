// Package sessions declares the server-side repository contract for
// session records kept in PostgreSQL.
package sessions

import (
	"context"
	"time"
)

// Repository stores opaque session values keyed by token.
type Repository interface {
	// Upsert stores value under token, expiring at expiresAt.
	Upsert(ctx context.Context, token string, value []byte, expiresAt time.Time) error

	// Find returns the value for a token that has not expired yet.
	// Missing and expired tokens both return common.ErrorNotFound.
	Find(ctx context.Context, token string) ([]byte, error)

	// Delete removes a token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges rows past their expiry and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
