package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strPtr(s string) *string { return &s }

var userColumns = []string{"id", "cnic", "username", "password_hash", "is_admin", "created_at"}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(cnic,\s*username,\s*password_hash,\s*is_admin\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now)
	mock.ExpectQuery(insertQ).
		WithArgs("3520112345671", "admin", "hash.salt", true).
		WillReturnRows(rows)

	u := &models.User{CNIC: "3520112345671", Username: strPtr("admin"), PasswordHash: strPtr("hash.salt"), IsAdmin: true}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreate_NilUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("3520112345671", nil, nil, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	got, err := repo.Create(context.Background(), &models.User{CNIC: "3520112345671"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected id %d", got.ID)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_single_admin"})

	_, err := repo.Create(context.Background(), &models.User{CNIC: "3520112345671", IsAdmin: true})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want common.ErrConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{CNIC: "3520112345671"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByCNIC_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*cnic,\s*username,\s*password_hash,\s*is_admin,\s*created_at\s+FROM\s+users\s+WHERE\s+cnic\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(userColumns).
		AddRow(int64(5), "3520112345671", nil, nil, false, time.Now())
	mock.ExpectQuery(q).WithArgs("3520112345671").WillReturnRows(rows)

	got, err := repo.GetByCNIC(context.Background(), "3520112345671")
	if err != nil {
		t.Fatalf("GetByCNIC error: %v", err)
	}
	if got.ID != 5 || got.Username != nil || got.PasswordHash != nil || got.IsAdmin {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(userColumns).
		AddRow(int64(1), "3520112345671", "admin", "h.s", true, time.Now())
	mock.ExpectQuery(q).WithArgs("admin").WillReturnRows(rows)

	got, err := repo.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.Username == nil || *got.Username != "admin" || !got.IsAdmin || !got.HasPassword() {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WithArgs(int64(1)).WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestAdminExists(t *testing.T) {
	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+is_admin\)\s*$`

	for _, want := range []bool{true, false} {
		repo, mock, db := newRepoWithMock(t)

		mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := repo.AdminExists(context.Background())
		if err != nil {
			t.Fatalf("AdminExists error: %v", err)
		}
		if got != want {
			t.Fatalf("AdminExists = %v, want %v", got, want)
		}
		db.Close()
	}
}

func TestAdminExists_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`EXISTS`).WillReturnError(errors.New("boom"))

	if _, err := repo.AdminExists(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
