package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	ctx := context.Background()

	_, ok, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyToken, []byte("tok123"), 0))

	data, ok, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok123", string(data))

	require.NoError(t, store.Delete(ctx, KeyToken))
	_, ok, err = store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreTTLExpiry(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyHomes, []byte(`["A"]`), 10*time.Millisecond))

	_, ok, err := store.Get(ctx, KeyHomes)
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok, err = store.Get(ctx, KeyHomes)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := NewFileStore(path)
	require.NoError(t, first.Set(ctx, KeyUser, []byte(`{"id":"u1"}`), 0))

	second := NewFileStore(path)
	data, ok, err := second.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"u1"}`, string(data))
}
