package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/session"
)

type memStorage struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{entries: make(map[string][]byte)}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	return data, ok, nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func storeWith(t *testing.T, token string, user string) *session.Store {
	t.Helper()
	storage := newMemStorage()
	ctx := context.Background()
	if token != "" {
		storage.Set(ctx, session.KeyToken, []byte(token), 0)
	}
	if user != "" {
		storage.Set(ctx, session.KeyUser, []byte(user), 0)
	}
	return session.NewStore(storage, zap.NewNop())
}

func TestRequireLoginRedirectsPages(t *testing.T) {
	store := storeWith(t, "", "")
	handler := RequireLogin(store)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/roster", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireLoginRejectsAPIWithJSON(t *testing.T) {
	store := storeWith(t, "", "")
	handler := RequireLogin(store)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/roster/view", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login required")
}

func TestRequireLoginPassesWithToken(t *testing.T) {
	store := storeWith(t, "tok123", "")
	handler := RequireLogin(store)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/roster/view", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnlyRedirectsStaffToOwnDashboard(t *testing.T) {
	store := storeWith(t, "tok123", `{"id":"u2","name":"スタッフ","role":"staff"}`)
	handler := AdminOnly(store)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/roster", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/my", rec.Header().Get("Location"))
}

func TestAdminOnlyRejectsStaffAPIWithJSON(t *testing.T) {
	store := storeWith(t, "tok123", `{"id":"u2","name":"スタッフ","role":"staff"}`)
	handler := AdminOnly(store)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/roster/cell", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnlyPassesAdmin(t *testing.T) {
	store := storeWith(t, "tok123", `{"id":"u1","name":"管理者","role":"admin"}`)
	handler := AdminOnly(store)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/roster", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
