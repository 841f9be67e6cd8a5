package session

import (
	"context"
	"time"
)

// Storage keys mirror the keys the dashboard has always used in browser
// local storage; keeping them stable lets a redis backend be inspected with
// the same names.
const (
	KeyToken     = "shift_auth_token"
	KeyUser      = "shift_user"
	KeyHomes     = "shift_cache_homes"
	KeyTemplates = "shift_cache_bikou_templates"
	KeySettings  = "shift_settings"
)

// Storage is the local key-value store standing in for browser storage.
// A zero ttl means the entry does not expire.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
