package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"consultdesk/internal/models"
)

// CookieName is the login-session cookie.
const CookieName = "session"

// SessionStore persists login sessions with sliding expiration. Reads
// can write: once a session's remaining validity drops below half the
// configured duration its expiry is silently pushed forward, so
// ExpiresAt never decreases while the row exists.
type SessionStore struct {
	db       *gorm.DB
	duration time.Duration
	secure   bool
}

func NewSessionStore(db *gorm.DB, duration time.Duration, secure bool) *SessionStore {
	return &SessionStore{db: db, duration: duration, secure: secure}
}

// Duration is the configured session lifetime.
func (s *SessionStore) Duration() time.Duration { return s.duration }

// Create issues a new session row with a fresh opaque token.
func (s *SessionStore) Create(userID, ipAddress, userAgent string) (*models.Session, error) {
	now := time.Now()
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     newToken(),
		ExpiresAt: now.Add(s.duration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get resolves a cookie token to its session and user. A missing or
// expired session yields (nil, nil, nil): "not authenticated" is not an
// error. Only infrastructure failures return a non-nil error.
func (s *SessionStore) Get(token string) (*models.Session, *models.User, error) {
	if token == "" {
		return nil, nil, nil
	}
	return s.resolve("token = ?", token)
}

// GetByID is Get addressed by session id; bearer tokens carry the id.
func (s *SessionStore) GetByID(id string) (*models.Session, *models.User, error) {
	if id == "" {
		return nil, nil, nil
	}
	return s.resolve("id = ?", id)
}

func (s *SessionStore) resolve(query string, arg string) (*models.Session, *models.User, error) {
	var sess models.Session
	if err := s.db.First(&sess, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	now := time.Now()
	if !sess.ExpiresAt.After(now) {
		return nil, nil, nil
	}
	if sess.ExpiresAt.Sub(now) < s.duration/2 {
		extended := now.Add(s.duration)
		if err := s.db.Model(&models.Session{}).Where("id = ?", sess.ID).
			Update("expires_at", extended).Error; err != nil {
			return nil, nil, err
		}
		sess.ExpiresAt = extended
	}
	var user models.User
	if err := s.db.Preload("Role").Preload("Organization").
		First(&user, "id = ?", sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &sess, &user, nil
}

// Delete removes the session row. Failures are swallowed so logout is
// idempotent.
func (s *SessionStore) Delete(token string) {
	_ = s.db.Delete(&models.Session{}, "token = ?", token).Error
}

// DeleteExpired sweeps rows past their expiry.
func (s *SessionStore) DeleteExpired() error {
	return s.db.Delete(&models.Session{}, "expires_at <= ?", time.Now()).Error
}

// SetCookie writes the session cookie. Cookies cannot be mutated in
// every request context, so refreshing one is always an explicit call
// rather than a side effect of Get.
func (s *SessionStore) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.duration.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
