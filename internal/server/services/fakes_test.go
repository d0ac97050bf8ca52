package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	cnicsrepo "github.com/dmitrijs2005/lostfound/internal/server/repositories/cnics"
	itemsrepo "github.com/dmitrijs2005/lostfound/internal/server/repositories/items"
	sessionsrepo "github.com/dmitrijs2005/lostfound/internal/server/repositories/sessions"
	usersrepo "github.com/dmitrijs2005/lostfound/internal/server/repositories/users"
)

// fakeUsersRepo enforces the same uniqueness rules as the users table,
// including the single-admin index.
type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	createCalls int
	failErr     error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, ex := range f.byID {
		if ex.CNIC == u.CNIC ||
			(u.Username != nil && ex.Username != nil && *ex.Username == *u.Username) ||
			(u.IsAdmin && ex.IsAdmin) {
			return nil, common.ErrConflict
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) GetByCNIC(ctx context.Context, cnic string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.CNIC == cnic })
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username != nil && *u.Username == username })
}

func (f *fakeUsersRepo) AdminExists(ctx context.Context) (bool, error) {
	_, err := f.find(func(u *models.User) bool { return u.IsAdmin })
	if err == common.ErrorNotFound {
		return false, nil
	}
	return err == nil, err
}

type fakeCNICsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*models.AuthorizedCnic
}

func newFakeCNICsRepo(cnics ...string) *fakeCNICsRepo {
	f := &fakeCNICsRepo{rows: map[string]*models.AuthorizedCnic{}}
	for _, c := range cnics {
		_, _ = f.Create(context.Background(), c, 1)
	}
	return f
}

func (f *fakeCNICsRepo) Exists(ctx context.Context, cnic string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[cnic]
	return ok, nil
}

func (f *fakeCNICsRepo) List(ctx context.Context) ([]*models.AuthorizedCnic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.AuthorizedCnic, 0, len(f.rows))
	for _, r := range f.rows {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCNICsRepo) Create(ctx context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[cnic]; ok {
		return nil, common.ErrConflict
	}
	f.nextID++
	r := &models.AuthorizedCnic{ID: f.nextID, CNIC: cnic, AddedBy: addedBy, AddedAt: time.Now()}
	f.rows[cnic] = r
	cp := *r
	return &cp, nil
}

func (f *fakeCNICsRepo) Delete(ctx context.Context, cnic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, cnic)
	return nil
}

type fakeItemsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Item

	purged     time.Time
	purgeKeys  []string
	purgeCount int64
	purgeErr   error
}

func newFakeItemsRepo() *fakeItemsRepo {
	return &fakeItemsRepo{rows: map[int64]*models.Item{}}
}

func (f *fakeItemsRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	item.Status = models.ItemStatusOpen
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	f.rows[item.ID] = &cp
	return item, nil
}

func (f *fakeItemsRepo) Get(ctx context.Context, id int64) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemsRepo) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Item, 0)
	for _, it := range f.rows {
		if filter.Type != "" && it.Type != filter.Type {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeItemsRepo) Update(ctx context.Context, item *models.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[item.ID]
	if !ok {
		return common.ErrorNotFound
	}
	it.Type, it.Title, it.Description = item.Type, item.Title, item.Description
	it.Category, it.Location, it.ContactNumber = item.Category, item.Location, item.ContactNumber
	return nil
}

func (f *fakeItemsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	it.Status = status
	return nil
}

func (f *fakeItemsRepo) SetImageKey(ctx context.Context, id int64, key *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	it.ImageKey = key
	return nil
}

func (f *fakeItemsRepo) Delete(ctx context.Context, id int64) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, id)
	return it.ImageKey, nil
}

func (f *fakeItemsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = cutoff
	return f.purgeCount, f.purgeKeys, f.purgeErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCNICsRepo
	i *fakeItemsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), c: newFakeCNICsRepo(), i: newFakeItemsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) CNICs(db dbx.DBTX) cnicsrepo.Repository       { return m.c }
func (m *fakeRepoManager) Items(db dbx.DBTX) itemsrepo.Repository       { return m.i }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository { return nil }

// fakePhotos records calls instead of talking to S3.
type fakePhotos struct {
	mu       sync.Mutex
	deleted  []string
	uploaded map[string]bool
	putErr   error
	getErr   error
	headErr  error
}

// upload marks key as present in the bucket, as a client PUT would.
func (p *fakePhotos) upload(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.uploaded == nil {
		p.uploaded = make(map[string]bool)
	}
	p.uploaded[key] = true
}

func (p *fakePhotos) Exists(ctx context.Context, key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.headErr != nil {
		return false, p.headErr
	}
	return p.uploaded[key], nil
}

func (p *fakePhotos) PresignPut(ctx context.Context, key string) (string, error) {
	if p.putErr != nil {
		return "", p.putErr
	}
	return "https://s3.test/put/" + key, nil
}

func (p *fakePhotos) PresignGet(ctx context.Context, key string) (string, error) {
	if p.getErr != nil {
		return "", p.getErr
	}
	return "https://s3.test/get/" + key, nil
}

func (p *fakePhotos) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, key)
	return nil
}

func testLogger() logging.Logger { return logging.Discard() }

// noTx runs fn directly; the fake repos ignore the handle.
func noTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}
