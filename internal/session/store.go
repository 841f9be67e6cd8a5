// Package session holds the authenticated user's token and profile, persisted
// through a Storage backend so the server and CLI share one login.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/upstream"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is the profile issued by the upstream on login/verify. Role is
// read-only once issued.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Gateway is the slice of the upstream client the session store needs.
type Gateway interface {
	Get(ctx context.Context, endpoint string, params url.Values, out interface{}) error
	Post(ctx context.Context, endpoint string, body, out interface{}) error
}

// Store implements upstream.TokenSource.
type Store struct {
	storage Storage
	api     Gateway
	logger  *zap.Logger
}

func NewStore(storage Storage, logger *zap.Logger) *Store {
	return &Store{storage: storage, logger: logger}
}

// AttachGateway wires the upstream client after construction; the client
// itself needs the store as its token source.
func (s *Store) AttachGateway(api Gateway) {
	s.api = api
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
	Error   string `json:"error"`
}

// Login posts credentials and, on success, persists token and user.
func (s *Store) Login(ctx context.Context, username, password string) (User, error) {
	if s.api == nil {
		return User{}, fmt.Errorf("session store has no gateway attached")
	}

	var resp loginResponse
	err := s.api.Post(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		s.logger.Error("login request failed", zap.Error(err))
		return User{}, fmt.Errorf("login failed: %w", err)
	}
	if !resp.Success {
		return User{}, fmt.Errorf("login rejected: %s", resp.Error)
	}

	if err := s.storage.Set(ctx, KeyToken, []byte(resp.Token), 0); err != nil {
		return User{}, fmt.Errorf("persist token: %w", err)
	}
	if err := s.saveUser(ctx, resp.User); err != nil {
		return User{}, err
	}
	s.logger.Info("✅ logged in", zap.String("user", resp.User.Name), zap.String("role", resp.User.Role))
	return resp.User, nil
}

// Logout notifies the upstream best-effort, then always clears local state.
func (s *Store) Logout(ctx context.Context) {
	if s.api != nil && s.Token() != "" {
		if err := s.api.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
			s.logger.Warn("logout notification failed", zap.Error(err))
		}
	}
	s.Clear(context.WithoutCancel(ctx))
	s.logger.Info("✅ logged out")
}

// Verify asks the upstream whether the held token is still valid.
//
// Only an explicit 401 clears the session. A network failure or a non-401
// HTTP error means "could not check" and must leave the token intact.
func (s *Store) Verify(ctx context.Context) bool {
	if s.Token() == "" {
		return false
	}
	if s.api == nil {
		return false
	}

	var resp struct {
		Success bool `json:"success"`
		User    User `json:"user"`
	}
	err := s.api.Get(ctx, "/api/auth/verify", nil, &resp)
	if err != nil {
		if upstream.IsUnauthorized(err) {
			s.logger.Warn("⚠️ token expired or invalid")
			s.Clear(ctx)
			return false
		}
		s.logger.Warn("token verification unavailable", zap.Error(err))
		return false
	}
	if !resp.Success {
		s.Clear(ctx)
		return false
	}
	if err := s.saveUser(ctx, resp.User); err != nil {
		s.logger.Warn("refresh cached user failed", zap.Error(err))
	}
	return true
}

// IsLoggedIn reports token presence.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the cached user's role is admin.
func (s *Store) IsAdmin() bool {
	user, ok := s.User()
	return ok && user.Role == RoleAdmin
}

// Token returns the stored bearer token, empty when logged out.
func (s *Store) Token() string {
	data, ok, err := s.storage.Get(context.Background(), KeyToken)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}

// User returns the cached profile.
func (s *Store) User() (User, bool) {
	data, ok, err := s.storage.Get(context.Background(), KeyUser)
	if err != nil || !ok {
		return User{}, false
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, false
	}
	return user, true
}

// TokenExpiry reads the exp claim of the held token without verifying the
// signature; verification belongs to the upstream. Zero time when absent.
func (s *Store) TokenExpiry() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Clear drops token and user. Called on logout and on upstream 401s.
func (s *Store) Clear(ctx context.Context) {
	if err := s.storage.Delete(ctx, KeyToken, KeyUser); err != nil {
		s.logger.Error("clear session failed", zap.Error(err))
	}
}

// HandleUnauthorized is the gateway's 401 hook.
func (s *Store) HandleUnauthorized() {
	s.Clear(context.Background())
}

func (s *Store) saveUser(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, data, 0); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}
