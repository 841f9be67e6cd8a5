package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/session"
)

type AuthHandler struct {
	store    *session.Store
	audit    *audit.Store
	logger   *zap.Logger
	validate *validator.Validate
}

func NewAuthHandler(store *session.Store, auditStore *audit.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		store:    store,
		audit:    auditStore,
		logger:   logger,
		validate: validator.New(),
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// dashboardFor picks the landing page by role: admins manage the full
// roster, staff see their own schedule.
func dashboardFor(user session.User) string {
	if user.Role == session.RoleAdmin {
		return "/dashboard/roster"
	}
	return "/dashboard/my"
}

// Login authenticates against the upstream and reports where to go next.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		// The plain HTML login page submits a form.
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}
	if err := h.validate.Struct(req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.store.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("login failed", zap.String("username", req.Username), zap.Error(err))
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	h.audit.Record(r.Context(), user.ID, "login", "", "")

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Redirect(w, r, dashboardFor(user), http.StatusSeeOther)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"user":     user,
		"redirect": dashboardFor(user),
	})
}

// Logout clears the session locally even when the upstream cannot be reached.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _ := h.store.User()
	h.store.Logout(r.Context())
	h.audit.Record(r.Context(), user.ID, "logout", "", "")

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"redirect": "/login",
	})
}

// LoginPage serves the login form. A visitor who already holds a token is
// re-verified first; only a confirmed-valid session skips the form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.store.IsLoggedIn() && h.store.Verify(r.Context()) {
		user, _ := h.store.User()
		http.Redirect(w, r, dashboardFor(user), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(loginPageHTML))
}

// Session reports the current login state for the client shell.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := h.store.User()
	payload := map[string]interface{}{
		"success":   true,
		"logged_in": h.store.IsLoggedIn(),
	}
	if ok {
		payload["user"] = user
		payload["is_admin"] = user.Role == session.RoleAdmin
	}
	if expiry := h.store.TokenExpiry(); !expiry.IsZero() {
		payload["token_expires_at"] = expiry
	}
	response.RespondWithJSON(w, http.StatusOK, payload)
}

const loginPageHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="UTF-8">
<title>ログイン - シフト管理</title>
</head>
<body>
<h1>シフト管理システム</h1>
<form method="post" action="/api/auth/login">
  <label>ユーザー名 <input type="text" name="username" required></label>
  <label>パスワード <input type="password" name="password" required></label>
  <button type="submit">ログイン</button>
</form>
</body>
</html>
`
