package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, staticToken("tok123"), 5*time.Second, zap.NewNop())
}

func TestGetAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	var out struct {
		Success bool `json:"success"`
	}
	require.NoError(t, client.Get(context.Background(), "/api/staff", nil, &out))
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.True(t, out.Success)
}

func TestPostSendsJSONBody(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	err := client.Post(context.Background(), "/api/auth/login", map[string]string{"username": "admin"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "admin", gotBody["username"])
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	})

	err := client.Get(context.Background(), "/api/staff", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
	assert.False(t, IsUnauthorized(err))
}

func TestUnauthorizedFiresHookOnce(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	})

	fired := 0
	client.OnUnauthorized = func() { fired++ }

	err := client.Get(context.Background(), "/api/auth/verify", nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, fired)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", staticToken(""), 100*time.Millisecond, zap.NewNop())

	err := client.Get(context.Background(), "/api/staff", nil, nil)
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))

	_, ok := err.(*APIError)
	assert.False(t, ok)
}
