package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// PostgresStore keeps sessions in the sessions table. Reads filter out
// expired rows; DeleteExpired removes them.
type PostgresStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewPostgresStore(db *sql.DB, m repomanager.RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, repomanager: m, now: time.Now}
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.repomanager.Sessions(s.db).Upsert(ctx, key, value, s.now().Add(ttl))
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.repomanager.Sessions(s.db).Find(ctx, key)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.repomanager.Sessions(s.db).Delete(ctx, key)
}

// DeleteExpired purges expired rows and reports how many were removed.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
