// Package services contains server-side business logic: the credential
// store, the authorization policy, item reports and their photos, and the
// background cleanup worker.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// CredentialStore is the data access facade over users and the CNIC
// allow-list. Each method is one read or one single-row write.
type CredentialStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCredentialStore(db *sql.DB, m repomanager.RepositoryManager) *CredentialStore {
	return &CredentialStore{db: db, repomanager: m}
}

func (s *CredentialStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *CredentialStore) FindUserByCNIC(ctx context.Context, cnic string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByCNIC(ctx, cnic)
}

func (s *CredentialStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// CreateUser inserts u. A CNIC, username or admin collision yields common.ErrConflict.
func (s *CredentialStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return s.repomanager.Users(s.db).Create(ctx, u)
}

func (s *CredentialStore) AdminExists(ctx context.Context) (bool, error) {
	return s.repomanager.Users(s.db).AdminExists(ctx)
}

func (s *CredentialStore) IsCNICAuthorized(ctx context.Context, cnic string) (bool, error) {
	return s.repomanager.CNICs(s.db).Exists(ctx, cnic)
}

// ListAuthorizedCNICs returns the allow-list, most recently added first.
func (s *CredentialStore) ListAuthorizedCNICs(ctx context.Context) ([]*models.AuthorizedCnic, error) {
	return s.repomanager.CNICs(s.db).List(ctx)
}

// AuthorizeCNIC allow-lists cnic on behalf of admin addedBy.
func (s *CredentialStore) AuthorizeCNIC(ctx context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error) {
	if !common.IsValidCNIC(cnic) {
		return nil, fmt.Errorf("cnic: %w", common.ErrInvalidFormat)
	}
	return s.repomanager.CNICs(s.db).Create(ctx, cnic, addedBy)
}

// RevokeCNIC removes cnic from the allow-list. Revoking an absent CNIC
// succeeds. Live sessions of the affected user are left alone.
func (s *CredentialStore) RevokeCNIC(ctx context.Context, cnic string) error {
	if !common.IsValidCNIC(cnic) {
		return fmt.Errorf("cnic: %w", common.ErrInvalidFormat)
	}
	return s.repomanager.CNICs(s.db).Delete(ctx, cnic)
}
