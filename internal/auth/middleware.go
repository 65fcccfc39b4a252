package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"consultdesk/internal/models"
)

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// SessionAuth resolves the session cookie, or failing that a bearer
// token whose sid claim names a session row, and attaches the identity
// to the request context. Missing or expired credentials produce a JSON
// 401, never a panic or redirect: API routes speak JSON throughout.
func SessionAuth(store *SessionStore, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				sess *models.Session
				user *models.User
				err  error
			)
			if c, cerr := r.Cookie(CookieName); cerr == nil && c.Value != "" {
				sess, user, err = store.Get(c.Value)
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				claims, verr := VerifyToken(jwtSecret, strings.TrimPrefix(h, "Bearer "))
				if verr != nil {
					writeError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				sess, user, err = store.GetByID(claims.SessionID)
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if sess == nil || user == nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			ctx := WithIdentity(r.Context(), Identity{User: *user, SessionID: sess.ID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyRole gates a route to the named system roles, compared
// case-insensitively. Unauthenticated requests never reach here when
// stacked under SessionAuth.
func RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok || !HasAnyUserRole(id.RoleName(), roles...) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
