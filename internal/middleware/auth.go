package middleware

import (
	"net/http"
	"strings"

	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/session"
)

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// RequireLogin gates every dashboard surface behind an active session.
// API callers get a 401 JSON body; page loads are redirected to /login.
func RequireLogin(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.IsLoggedIn() {
				if wantsJSON(r) {
					response.RespondWithError(w, http.StatusUnauthorized, "Login required")
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly restricts management surfaces to the admin role. Staff users
// hitting a page are sent to their own dashboard instead of a bare 403.
func AdminOnly(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.IsAdmin() {
				if wantsJSON(r) {
					response.RespondWithError(w, http.StatusForbidden, "Admin access required")
					return
				}
				http.Redirect(w, r, "/dashboard/my", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
