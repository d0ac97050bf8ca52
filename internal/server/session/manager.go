package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

const sessionIDSize = 32

var randomBytes = common.GenerateRandByteArray

// UserFinder re-reads the session owner on every request.
type UserFinder interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Manager creates, resolves and destroys sessions.
type Manager struct {
	store  Store
	users  UserFinder
	secret []byte
	ttl    time.Duration
	logger logging.Logger
	now    func() time.Time
}

func NewManager(store Store, users UserFinder, secret string, ttl time.Duration, logger logging.Logger) *Manager {
	return &Manager{
		store:  store,
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger.With("module", "session"),
		now:    time.Now,
	}
}

// Store exposes the backing store, e.g. for health checks.
func (m *Manager) Store() Store {
	return m.store
}

// GenerateID returns a new 256-bit session id, base64url encoded.
func GenerateID() (string, error) {
	b := randomBytes(sessionIDSize)
	if b == nil {
		return "", fmt.Errorf("session: generate id: %w", common.ErrorInternal)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateSession starts a session for userID. The returned token is what goes
// into the cookie.
func (m *Manager) CreateSession(ctx context.Context, userID int64) (string, time.Time, error) {
	sid, err := GenerateID()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := m.now().Add(m.ttl)
	value, err := json.Marshal(models.Session{UserID: userID, ExpiresAt: expiresAt})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: marshal: %w", err)
	}

	if err := m.store.Put(ctx, sid, value, m.ttl); err != nil {
		return "", time.Time{}, fmt.Errorf("session: store: %w", err)
	}

	token, err := SignToken(sid, m.secret, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// ResolveSession returns the current user behind token. Any failure to
// authenticate is common.ErrUnauthenticated; store outages are returned as is.
func (m *Manager) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	sid, err := ParseToken(token, m.secret)
	if err != nil {
		m.logger.Debug(ctx, "session token rejected", "error", err)
		return nil, common.ErrUnauthenticated
	}

	raw, err := m.store.Get(ctx, sid)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		m.logger.Warn(ctx, "corrupt session record", "error", err)
		return nil, common.ErrUnauthenticated
	}
	if !m.now().Before(sess.ExpiresAt) {
		return nil, common.ErrUnauthenticated
	}

	user, err := m.users.FindUserByID(ctx, sess.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DestroySession ends the session behind token. Unknown or invalid tokens
// are ignored.
func (m *Manager) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := ParseToken(token, m.secret)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sid)
}
