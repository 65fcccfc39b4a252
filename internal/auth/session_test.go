package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"consultdesk/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.Organization{}, &models.User{}, &models.Session{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	role := models.Role{Name: RoleConsultant}
	require.NoError(t, db.Create(&role).Error)
	org := models.Organization{ID: uuid.NewString(), Name: "Acme Consulting"}
	require.NoError(t, db.Create(&org).Error)
	u := models.User{
		ID:             uuid.NewString(),
		Email:          "taro@example.com",
		PasswordHash:   "x",
		Name:           "Taro",
		RoleID:         role.ID,
		OrganizationID: &org.ID,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestSessionCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	store := NewSessionStore(db, 8*time.Hour, false)

	sess, err := store.Create(u.ID, "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.WithinDuration(t, sess.CreatedAt.Add(8*time.Hour), sess.ExpiresAt, time.Second)

	got, user, err := store.Get(sess.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, user)
	require.Equal(t, u.ID, user.ID)
	require.NotNil(t, user.Role)
	require.Equal(t, RoleConsultant, user.Role.Name)
	require.NotNil(t, user.Organization)
	require.Equal(t, "Acme Consulting", user.Organization.Name)
}

func TestSessionDurationPerEnvironment(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)

	dev := NewSessionStore(db, 8*time.Hour, false)
	prod := NewSessionStore(db, 2*time.Hour, true)

	devSess, err := dev.Create(u.ID, "", "")
	require.NoError(t, err)
	require.Equal(t, 8*time.Hour, devSess.ExpiresAt.Sub(devSess.CreatedAt))

	prodSess, err := prod.Create(u.ID, "", "")
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, prodSess.ExpiresAt.Sub(prodSess.CreatedAt))
}

func TestSessionGetMissingAndExpired(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	store := NewSessionStore(db, time.Hour, false)

	sess, user, err := store.Get("no-such-token")
	require.NoError(t, err)
	require.Nil(t, sess)
	require.Nil(t, user)

	sess, user, err = store.Get("")
	require.NoError(t, err)
	require.Nil(t, sess)
	require.Nil(t, user)

	created, err := store.Create(u.ID, "", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", created.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	sess, user, err = store.Get(created.Token)
	require.NoError(t, err)
	require.Nil(t, sess)
	require.Nil(t, user)
}

// Get must not write when more than half the duration remains, and must
// extend when less than half remains. ExpiresAt never decreases.
func TestSessionSlidingExtension(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	store := NewSessionStore(db, 2*time.Hour, false)

	created, err := store.Create(u.ID, "", "")
	require.NoError(t, err)

	// Fresh session: remaining validity is above half, no extension.
	got, _, err := store.Get(created.Token)
	require.NoError(t, err)
	require.Equal(t, created.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	// Push the session near its end, below the half-duration mark.
	nearEnd := time.Now().Add(30 * time.Minute)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", created.ID).
		Update("expires_at", nearEnd).Error)

	got, _, err = store.Get(created.Token)
	require.NoError(t, err)
	require.True(t, got.ExpiresAt.After(nearEnd), "expiry must be extended")
	require.WithinDuration(t, time.Now().Add(2*time.Hour), got.ExpiresAt, time.Second)

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, got.ExpiresAt.Unix(), stored.ExpiresAt.Unix())
}

func TestSessionGetByID(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	store := NewSessionStore(db, time.Hour, false)

	created, err := store.Create(u.ID, "", "")
	require.NoError(t, err)

	sess, user, err := store.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, u.ID, user.ID)
}

func TestSessionDeleteIdempotent(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	store := NewSessionStore(db, time.Hour, false)

	created, err := store.Create(u.ID, "", "")
	require.NoError(t, err)

	store.Delete(created.Token)
	store.Delete(created.Token) // second delete is a no-op

	sess, _, err := store.Get(created.Token)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestSessionCookieAttributes(t *testing.T) {
	db := newTestDB(t)
	store := NewSessionStore(db, 2*time.Hour, true)

	rr := httptest.NewRecorder()
	store.SetCookie(rr, "tok")
	res := rr.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, CookieName, c.Name)
	require.Equal(t, "tok", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, int((2 * time.Hour).Seconds()), c.MaxAge)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestSessionClearCookie(t *testing.T) {
	db := newTestDB(t)
	store := NewSessionStore(db, time.Hour, false)

	rr := httptest.NewRecorder()
	store.ClearCookie(rr)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookieName, cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0)
}
