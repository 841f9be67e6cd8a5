package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/session"
)

type memStorage struct {
	mu      sync.Mutex
	entries map[string][]byte
	expiry  map[string]time.Time
}

func newMemStorage() *memStorage {
	return &memStorage{entries: make(map[string][]byte), expiry: make(map[string]time.Time)}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.expiry[key]; ok && time.Now().After(exp) {
		delete(m.entries, key)
		delete(m.expiry, key)
		return nil, false, nil
	}
	data, ok := m.entries[key]
	return data, ok, nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	if ttl > 0 {
		m.expiry[key] = time.Now().Add(ttl)
	} else {
		delete(m.expiry, key)
	}
	return nil
}

func (m *memStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
		delete(m.expiry, key)
	}
	return nil
}

type fakeGateway struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{responses: make(map[string]string), errs: make(map[string]error)}
}

func (f *fakeGateway) respond(method, endpoint string, out interface{}) error {
	key := method + " " + endpoint
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return err
	}
	body, ok := f.responses[key]
	if !ok {
		return fmt.Errorf("unexpected %s", key)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeGateway) Get(_ context.Context, endpoint string, _ url.Values, out interface{}) error {
	return f.respond("GET", endpoint, out)
}

func (f *fakeGateway) Post(_ context.Context, endpoint string, _, out interface{}) error {
	return f.respond("POST", endpoint, out)
}

func (f *fakeGateway) Put(_ context.Context, endpoint string, _, out interface{}) error {
	return f.respond("PUT", endpoint, out)
}

func (f *fakeGateway) Delete(_ context.Context, endpoint string, out interface{}) error {
	return f.respond("DELETE", endpoint, out)
}

func (f *fakeGateway) count(key string) int {
	n := 0
	for _, call := range f.calls {
		if call == key {
			n++
		}
	}
	return n
}

func newTestService(gw Gateway) (*Service, *memStorage) {
	storage := newMemStorage()
	return NewService(gw, storage, zap.NewNop()), storage
}

func TestHomesCacheFirst(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/homes"] = `{"success":true,"homes":[{"id":"h1","name":"A"}]}`
	service, _ := newTestService(gw)
	ctx := context.Background()

	first, err := service.Homes(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := service.Homes(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Second read was served from the cache.
	assert.Equal(t, 1, gw.count("GET /api/homes"))
}

func TestHomesForceBypassesCache(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/homes"] = `{"success":true,"homes":[{"id":"h1","name":"A"}]}`
	service, _ := newTestService(gw)
	ctx := context.Background()

	_, err := service.Homes(ctx, false)
	require.NoError(t, err)
	_, err = service.Homes(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 2, gw.count("GET /api/homes"))
}

func TestHomesCacheExpires(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/homes"] = `{"success":true,"homes":[{"id":"h1","name":"A"}]}`
	service, _ := newTestService(gw)
	service.ttl = 10 * time.Millisecond
	ctx := context.Background()

	_, err := service.Homes(ctx, false)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = service.Homes(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.count("GET /api/homes"))
}

func TestAddHomeInvalidatesCache(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/homes"] = `{"success":true,"homes":[{"id":"h1","name":"A"}]}`
	gw.responses["POST /api/homes"] = `{"success":true,"home_id":"h2"}`
	service, storage := newTestService(gw)
	ctx := context.Background()

	_, err := service.Homes(ctx, false)
	require.NoError(t, err)
	require.NoError(t, service.AddHome(ctx, "f"))

	_, ok, _ := storage.Get(ctx, session.KeyHomes)
	assert.False(t, ok)
}

func TestAddHomeRequiresName(t *testing.T) {
	service, _ := newTestService(newFakeGateway())
	assert.Error(t, service.AddHome(context.Background(), "  "))
}

func TestRenameHomeDeleteFailureLeavesDuplicate(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["POST /api/homes"] = `{"success":true,"home_id":"h9"}`
	gw.errs["DELETE /api/homes/h1"] = fmt.Errorf("upstream down")
	service, _ := newTestService(gw)

	// The rename still reports success; the duplicate is only logged.
	err := service.RenameHome(context.Background(), "h1", "F")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.count("POST /api/homes"))
	assert.Equal(t, 1, gw.count("DELETE /api/homes/h1"))
}

func TestRenameTemplateCopiesTextUnderNewID(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/bikou-templates"] = `{"success":true,"templates":[{"id":"備考1","text":"早番対応"}]}`
	gw.responses["POST /api/bikou-templates"] = `{"success":true,"template_id":"メモ1"}`
	gw.responses["DELETE /api/bikou-templates/備考1"] = `{"success":true}`
	service, _ := newTestService(gw)

	require.NoError(t, service.RenameTemplate(context.Background(), "備考1", "メモ1"))

	assert.Equal(t, 1, gw.count("POST /api/bikou-templates"))
	assert.Equal(t, 1, gw.count("DELETE /api/bikou-templates/備考1"))
}

func TestRenameTemplateUnknownID(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/bikou-templates"] = `{"success":true,"templates":[]}`
	service, _ := newTestService(gw)

	err := service.RenameTemplate(context.Background(), "備考9", "メモ1")
	assert.Error(t, err)
}

func TestEnsureInitialDataSkipsExisting(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/homes"] = `{"success":true,"homes":[
		{"id":"h1","name":"A"},{"id":"h2","name":"B"},{"id":"h3","name":"C"},
		{"id":"h4","name":"D"},{"id":"h5","name":"E"}]}`
	gw.responses["GET /api/bikou-templates"] = `{"success":true,"templates":[
		{"id":"備考1","text":"備考テンプレート1"},{"id":"備考2","text":"備考テンプレート2"},
		{"id":"備考3","text":"備考テンプレート3"},{"id":"備考4","text":"備考テンプレート4"},
		{"id":"備考5","text":"備考テンプレート5"}]}`
	service, _ := newTestService(gw)

	require.NoError(t, service.EnsureInitialData(context.Background()))

	assert.Zero(t, gw.count("POST /api/homes"))
	assert.Zero(t, gw.count("POST /api/bikou-templates"))
}

func TestEnsureInitialDataCreatesMissing(t *testing.T) {
	gw := newFakeGateway()
	gw.responses["GET /api/homes"] = `{"success":true,"homes":[
		{"id":"h1","name":"A"},{"id":"h2","name":"B"},{"id":"h3","name":"C"},
		{"id":"h4","name":"D"}]}`
	gw.responses["POST /api/homes"] = `{"success":true,"home_id":"h5"}`
	gw.responses["GET /api/bikou-templates"] = `{"success":true,"templates":[
		{"id":"備考1","text":"備考テンプレート1"},{"id":"備考2","text":"備考テンプレート2"},
		{"id":"備考3","text":"備考テンプレート3"},{"id":"備考4","text":"備考テンプレート4"},
		{"id":"備考5","text":"備考テンプレート5"}]}`
	service, _ := newTestService(gw)

	require.NoError(t, service.EnsureInitialData(context.Background()))

	assert.Equal(t, 1, gw.count("POST /api/homes"))
}
