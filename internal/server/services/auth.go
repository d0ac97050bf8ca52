package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/cryptox"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// AuthMode selects how users prove who they are. Exactly one mode is active
// per process.
type AuthMode string

const (
	// AuthModeCNIC admits any allow-listed CNIC without a password.
	AuthModeCNIC AuthMode = config.AuthModeCNIC
	// AuthModePassword requires a username and password.
	AuthModePassword AuthMode = config.AuthModePassword
)

type LoginRequest struct {
	CNIC     string `json:"cnic"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CNIC     string `json:"cnic"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CNIC     string `json:"cnic"`
}

// AuthService decides who may log in and owns the one-shot admin bootstrap.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       *CredentialStore
	mode        AuthMode
	logger      logging.Logger

	// runInTx runs fn inside a serializable transaction; replaced in tests.
	runInTx func(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, store *CredentialStore, mode AuthMode, logger logging.Logger) *AuthService {
	s := &AuthService{
		db:          db,
		repomanager: m,
		store:       store,
		mode:        mode,
		logger:      logger.With("module", "auth"),
	}
	s.runInTx = func(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
		return dbx.WithTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
	}
	return s
}

func (s *AuthService) Mode() AuthMode {
	return s.mode
}

// Login authenticates req according to the configured mode.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	switch s.mode {
	case AuthModeCNIC:
		return s.loginCNIC(ctx, req)
	case AuthModePassword:
		return s.loginPassword(ctx, req)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", s.mode)
	}
}

func (s *AuthService) loginCNIC(ctx context.Context, req LoginRequest) (*models.User, error) {
	if !common.IsValidCNIC(req.CNIC) {
		return nil, fmt.Errorf("cnic: %w", common.ErrNotAuthorized)
	}

	user, err := s.store.FindUserByCNIC(ctx, req.CNIC)
	switch {
	case err == nil && user.IsAdmin:
		// the admin bypasses the allow-list but must prove it with a password
		if !checkPassword(user, req.Password) {
			return nil, common.ErrInvalidCredentials
		}
		return user, nil
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	allowed, err := s.store.IsCNICAuthorized(ctx, req.CNIC)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Info(ctx, "login rejected, cnic not allow-listed")
		return nil, common.ErrNotAuthorized
	}

	if user != nil {
		return user, nil
	}

	created, err := s.store.CreateUser(ctx, &models.User{CNIC: req.CNIC})
	if errors.Is(err, common.ErrConflict) {
		// a concurrent first login won the insert
		return s.store.FindUserByCNIC(ctx, req.CNIC)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user created on first login", "user_id", created.ID)
	return created, nil
}

func (s *AuthService) loginPassword(ctx context.Context, req LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, invalid("credentials")
	}

	user, err := s.store.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, common.ErrorNotFound) {
		burnPasswordCheck(req.Password)
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !checkPassword(user, req.Password) {
		return nil, common.ErrInvalidCredentials
	}
	if user.IsAdmin {
		return user, nil
	}

	allowed, err := s.store.IsCNICAuthorized(ctx, user.CNIC)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, common.ErrNotAuthorized
	}
	return user, nil
}

var burnPasswordCheck = cryptox.BurnPasswordCheck

// checkPassword does the same key derivation whether or not u has a password,
// so a passwordless account answers no faster than a wrong password.
func checkPassword(u *models.User, supplied string) bool {
	if !u.HasPassword() {
		burnPasswordCheck(supplied)
		return false
	}
	return cryptox.ComparePasswords(supplied, *u.PasswordHash)
}

// AdminExists reports whether the bootstrap already happened.
func (s *AuthService) AdminExists(ctx context.Context) (bool, error) {
	return s.store.AdminExists(ctx)
}

// RegisterAdmin performs the one-time transition from "no admin" to "admin
// exists". At most one caller ever succeeds; everyone else gets common.ErrConflict.
func (s *AuthService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*models.User, error) {
	if err := validateCredentials(req.Username, req.Password, req.CNIC); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var admin *models.User
	err = s.runInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.AdminExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("admin already exists: %w", common.ErrConflict)
		}

		username := req.Username
		admin, err = repo.Create(ctx, &models.User{
			CNIC:         req.CNIC,
			Username:     &username,
			PasswordHash: &hash,
			IsAdmin:      true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "admin registered", "user_id", admin.ID)
	return admin, nil
}

// Register creates a non-admin password account for an allow-listed CNIC.
// It is only available in password mode.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if s.mode != AuthModePassword {
		return nil, common.ErrForbidden
	}
	if err := validateCredentials(req.Username, req.Password, req.CNIC); err != nil {
		return nil, err
	}

	allowed, err := s.store.IsCNICAuthorized(ctx, req.CNIC)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, common.ErrNotAuthorized
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	username := req.Username
	user, err := s.store.CreateUser(ctx, &models.User{
		CNIC:         req.CNIC,
		Username:     &username,
		PasswordHash: &hash,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
