package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	"github.com/dmitrijs2005/lostfound/internal/server/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func (f *fakeUsers) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) add(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

type fakeAuth struct {
	login         func(req services.LoginRequest) (*models.User, error)
	register      func(req services.RegisterRequest) (*models.User, error)
	registerAdmin func(req services.RegisterAdminRequest) (*models.User, error)
	adminExists   bool
}

func (f *fakeAuth) Login(_ context.Context, req services.LoginRequest) (*models.User, error) {
	return f.login(req)
}

func (f *fakeAuth) Register(_ context.Context, req services.RegisterRequest) (*models.User, error) {
	return f.register(req)
}

func (f *fakeAuth) RegisterAdmin(_ context.Context, req services.RegisterAdminRequest) (*models.User, error) {
	return f.registerAdmin(req)
}

func (f *fakeAuth) AdminExists(context.Context) (bool, error) {
	return f.adminExists, nil
}

type fakeCNICs struct {
	mu      sync.Mutex
	entries []*models.AuthorizedCnic
}

func (f *fakeCNICs) ListAuthorizedCNICs(context.Context) ([]*models.AuthorizedCnic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.AuthorizedCnic, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeCNICs) AuthorizeCNIC(_ context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error) {
	if !common.IsValidCNIC(cnic) {
		return nil, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.CNIC == cnic {
			return nil, common.ErrConflict
		}
	}
	e := &models.AuthorizedCnic{ID: int64(len(f.entries) + 1), CNIC: cnic, AddedBy: addedBy, AddedAt: time.Now()}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeCNICs) RevokeCNIC(_ context.Context, cnic string) error {
	if !common.IsValidCNIC(cnic) {
		return common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.CNIC == cnic {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	return nil
}

type fakeItems struct {
	mu       sync.Mutex
	items    map[int64]*models.Item
	nextID   int64
	photos   bool
	lastList models.ItemFilter
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[int64]*models.Item{}, nextID: 1, photos: true}
}

func (f *fakeItems) List(_ context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	if filter.Type != "" && filter.Type != models.ItemTypeLost && filter.Type != models.ItemTypeFound {
		return nil, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = filter
	out := []*models.Item{}
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeItems) Get(_ context.Context, id int64) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItems) Create(_ context.Context, owner *models.User, item *models.Item) (*models.Item, error) {
	if item.Title == "" {
		return nil, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.nextID
	f.nextID++
	item.UserID = owner.ID
	item.OwnerCNIC = owner.CNIC
	item.Status = models.ItemStatusOpen
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItems) Update(_ context.Context, id int64, fields *models.Item) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	it.Title = fields.Title
	it.Description = fields.Description
	return it, nil
}

func (f *fakeItems) UpdateStatus(_ context.Context, id int64, status string) (*models.Item, error) {
	if status != models.ItemStatusOpen && status != models.ItemStatusClosed {
		return nil, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	it.Status = status
	return it, nil
}

func (f *fakeItems) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItems) PhotoUpload(_ context.Context, id int64) (*models.PhotoUpload, error) {
	if !f.photos {
		return nil, common.ErrPhotosDisabled
	}
	return &models.PhotoUpload{Key: "items/k", URL: "http://s3/put"}, nil
}

func (f *fakeItems) ConfirmPhoto(_ context.Context, id int64, key string) (*models.Item, error) {
	if !f.photos {
		return nil, common.ErrPhotosDisabled
	}
	if key != "items/k" {
		return nil, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	it.ImageKey = &key
	it.ImageURL = "http://s3/get/" + key
	cp := *it
	return &cp, nil
}

type testServer struct {
	router   *gin.Engine
	users    *fakeUsers
	auth     *fakeAuth
	cnics    *fakeCNICs
	items    *fakeItems
	sessions *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	ts := &testServer{
		users: &fakeUsers{users: map[int64]*models.User{}},
		auth:  &fakeAuth{},
		cnics: &fakeCNICs{},
		items: newFakeItems(),
	}
	ts.sessions = session.NewManager(store, ts.users, testSecret, time.Hour, logging.Discard())

	h := NewHandler(ts.auth, ts.cnics, ts.items, ts.sessions, session.CookieOptions{}, logging.Discard())
	r, err := NewRouter(h, nil)
	require.NoError(t, err)
	ts.router = r
	return ts
}

// loginAs registers u with the fake user store and returns a valid session cookie.
func (ts *testServer) loginAs(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	ts.users.add(u)
	token, _, err := ts.sessions.CreateSession(context.Background(), u.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: common.SessionCookieName, Value: token}
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["message"]
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
