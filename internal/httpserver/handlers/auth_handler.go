package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/models"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates credentials, issues a session row plus cookie,
// and returns the user along with a bearer token for non-browser
// clients.
func Login(db *gorm.DB, sessions *auth.SessionStore, jwtSecret string, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		var u models.User
		err := db.Preload("Role").Preload("Organization").
			First(&u, "email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(req.Email)), true).Error
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		sess, err := sessions.Create(u.ID, clientIP(r), r.UserAgent())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		token, err := auth.SignToken(jwtSecret, u.ID, sess.ID, sess.ExpiresAt)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sessions.SetCookie(w, sess.Token)
		lg.Infow("login", "user", u.ID, "session", sess.ID)
		respondData(w, http.StatusOK, map[string]interface{}{"user": u, "token": token})
	}
}

// Logout deletes the session row and clears the cookie. Always
// succeeds: a missing session is already logged out.
func Logout(sessions *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(auth.CookieName); err == nil {
			sessions.Delete(c.Value)
		}
		sessions.ClearCookie(w)
		respondData(w, http.StatusOK, map[string]bool{"loggedOut": true})
	}
}

// Me returns the authenticated user with role and organization.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		respondData(w, http.StatusOK, id.User)
	}
}

// RefreshCookie re-issues the session cookie with a full max-age. The
// session row itself is already extended by the read path; this is the
// explicit cookie half of the sliding expiration, driven by the
// client's keep-alive poll.
func RefreshCookie(sessions *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(auth.CookieName)
		if err != nil || c.Value == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		sessions.SetCookie(w, c.Value)
		respondData(w, http.StatusOK, map[string]bool{"refreshed": true})
	}
}

func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}
