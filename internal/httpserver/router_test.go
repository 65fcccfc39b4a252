package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/config"
	"consultdesk/internal/database"
	"consultdesk/internal/models"
	"consultdesk/internal/parasol"
)

type testEnv struct {
	router   http.Handler
	reg      *database.Registry
	sessions *auth.SessionStore
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clients := make(map[database.Domain]*gorm.DB, len(database.Domains))
	for _, d := range database.Domains {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		require.NoError(t, err)
		clients[d] = db
	}
	reg, err := database.NewFromClients(clients)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	cfg := &config.Config{Env: "development", JWTSecret: "test-secret"}
	sessions := auth.NewSessionStore(reg.Get(database.Auth), cfg.SessionDuration(), false)
	router := NewRouter(reg, sessions, cfg, zap.NewNop().Sugar())
	return &testEnv{router: router, reg: reg, sessions: sessions, cfg: cfg}
}

// seedLogin creates a user with the given system role and an active
// session, returning the session cookie value.
func (e *testEnv) seedLogin(t *testing.T, roleName string) (*models.User, string) {
	t.Helper()
	db := e.reg.Get(database.Auth)
	var role models.Role
	if err := db.First(&role, "name = ?", roleName).Error; err != nil {
		role = models.Role{Name: roleName}
		require.NoError(t, db.Create(&role).Error)
	}
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	now := time.Now()
	u := models.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: hash,
		Name:         "Test User",
		RoleID:       role.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&u).Error)
	sess, err := e.sessions.Create(u.ID, "127.0.0.1", "test")
	require.NoError(t, err)
	return &u, sess.Token
}

func (e *testEnv) do(t *testing.T, method, path, cookie string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body=%s", rr.Body.String())
	return out
}

func (e *testEnv) seedService(t *testing.T, name string) *models.Service {
	t.Helper()
	store := parasol.NewStore(e.reg.Get(database.Parasol))
	svc, err := store.CreateService(name, name, "")
	require.NoError(t, err)
	return svc
}

func (e *testEnv) seedUseCase(t *testing.T) *models.UseCase {
	t.Helper()
	store := parasol.NewStore(e.reg.Get(database.Parasol))
	svc, err := store.CreateService("uc-service-"+uuid.NewString()[:8], "", "")
	require.NoError(t, err)
	cap, err := store.CreateCapability(svc.ID, "cap", "Core", "")
	require.NoError(t, err)
	op, err := store.CreateOperation(cap.ID, "op", "CRUD", "")
	require.NoError(t, err)
	uc, err := store.CreateUseCase(op.ID, "ユースケース", "", 0)
	require.NoError(t, err)
	return uc
}

func TestHealthIsPublic(t *testing.T) {
	e := newTestEnv(t)
	rr := e.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	require.Equal(t, "development", data["environment"])
}

func TestAPIRequiresSession(t *testing.T) {
	e := newTestEnv(t)
	rr := e.do(t, http.MethodGet, "/api/parasol/services", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "not authenticated", decodeBody(t, rr)["error"])
}

func TestLoginSetsCookieAndReturnsToken(t *testing.T) {
	e := newTestEnv(t)
	u, _ := e.seedLogin(t, auth.RoleConsultant)

	rr := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	require.True(t, sessionCookie.HttpOnly)
	require.Equal(t, int((8 * time.Hour).Seconds()), sessionCookie.MaxAge)

	data := decodeBody(t, rr)["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)

	// The bearer token resolves to the same session.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr2 := httptest.NewRecorder()
	e.router.ServeHTTP(rr2, req)
	require.Equal(t, http.StatusOK, rr2.Code)
	me := decodeBody(t, rr2)["data"].(map[string]interface{})
	require.Equal(t, u.ID, me["id"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	e := newTestEnv(t)
	u, _ := e.seedLogin(t, auth.RoleConsultant)
	rr := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)

	rr := e.do(t, http.MethodPost, "/api/auth/logout", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/auth/me", cookie, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPutDatabaseDesignUnknownService(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)

	rr := e.do(t, http.MethodPut, "/api/parasol/services/unknown-service/database-design", cookie,
		map[string]string{"content": "x"})
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "サービス 'unknown-service' が見つかりません", decodeBody(t, rr)["error"])
}

func TestPutAPISpecificationRequiresContent(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	e.seedService(t, "knowledge-service")

	rr := e.do(t, http.MethodPut, "/api/parasol/services/knowledge-service/api-specification", cookie,
		map[string]string{})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "コンテンツが必要です", decodeBody(t, rr)["error"])
}

func TestAPISpecificationPutThenGet(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	svc := e.seedService(t, "project-service")

	rr := e.do(t, http.MethodPut, "/api/parasol/services/project-service/api-specification", cookie,
		map[string]interface{}{
			"content":   "# API仕様",
			"endpoints": []map[string]string{{"method": "GET", "path": "/projects"}},
		})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	put := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, svc.ID, put["serviceId"])
	require.NotEmpty(t, put["id"])
	require.NotEmpty(t, put["updatedAt"])

	rr = e.do(t, http.MethodGet, "/api/parasol/services/project-service/api-specification", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, "# API仕様", data["content"])
	require.Equal(t, "1.0.0", data["version"])
	parsed := data["parsed"].(map[string]interface{})
	require.Len(t, parsed["endpoints"], 1)
	require.Empty(t, parsed["errorCodes"])
	require.NotNil(t, parsed["errorCodes"], "absent derived field must be [], not null")
}

func TestGetAPISpecificationMissingDocument(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	e.seedService(t, "empty-service")

	rr := e.do(t, http.MethodGet, "/api/parasol/services/empty-service/api-specification", cookie, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMalformedDerivedFieldStillReturns200(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	svc := e.seedService(t, "broken-service")

	rr := e.do(t, http.MethodPut, "/api/parasol/services/broken-service/api-specification", cookie,
		map[string]string{"content": "# spec"})
	require.Equal(t, http.StatusOK, rr.Code)

	db := e.reg.Get(database.Parasol)
	require.NoError(t, db.Model(&models.APISpecification{}).
		Where("service_id = ?", svc.ID).
		Update("endpoints", "{oops").Error)

	rr = e.do(t, http.MethodGet, "/api/parasol/services/broken-service/api-specification", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	parsed := data["parsed"].(map[string]interface{})
	require.Empty(t, parsed["endpoints"])
	require.NotNil(t, parsed["endpoints"])
	require.Equal(t, "# spec", data["content"])
}

func TestRobustnessCreateThenUpdate(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	uc := e.seedUseCase(t)

	rr := e.do(t, http.MethodPost, "/api/parasol/robustness", cookie,
		map[string]string{"useCaseId": uc.ID, "content": "v1"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodPost, "/api/parasol/robustness", cookie,
		map[string]string{"useCaseId": uc.ID, "content": "v2"})
	require.Equal(t, http.StatusOK, rr.Code)

	var count int64
	db := e.reg.Get(database.Parasol)
	require.NoError(t, db.Model(&models.RobustnessDiagram{}).Where("use_case_id = ?", uc.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	rr = e.do(t, http.MethodGet, "/api/parasol/robustness?useCaseId="+uc.ID, cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, "v2", data["content"])
}

func TestRobustnessValidation(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)

	rr := e.do(t, http.MethodPost, "/api/parasol/robustness", cookie,
		map[string]string{"content": "v1"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "ユースケースIDが必要です", decodeBody(t, rr)["error"])

	rr = e.do(t, http.MethodPost, "/api/parasol/robustness", cookie,
		map[string]string{"useCaseId": uuid.NewString(), "content": "v1"})
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDomainLanguageAddressedBySurrogateID(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	svc := e.seedService(t, "auth-service")

	// The name does not resolve on this endpoint; only the id does.
	rr := e.do(t, http.MethodPut, "/api/parasol/services/auth-service/domain-language", cookie,
		map[string]string{"content": "# 言語"})
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodPut, "/api/parasol/services/"+svc.ID+"/domain-language", cookie,
		map[string]string{"content": "# 言語"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodGet, "/api/parasol/services/"+svc.ID+"/domain-language", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, "# 言語", data["content"])
}

func TestIntegrationSpecificationLivesOnService(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	e.seedService(t, "finance-service")

	rr := e.do(t, http.MethodPut, "/api/parasol/services/finance-service/integration-specification", cookie,
		map[string]string{"content": "# 連携仕様"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/parasol/services/finance-service/integration-specification", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, "# 連携仕様", data["content"])

	rr = e.do(t, http.MethodPut, "/api/parasol/services/finance-service/integration-specification", cookie,
		map[string]string{})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "コンテンツが必要です", decodeBody(t, rr)["error"])
}

func TestTimesheetApprovalRoleGate(t *testing.T) {
	e := newTestEnv(t)
	consultant, consultantCookie := e.seedLogin(t, auth.RoleConsultant)
	_, pmCookie := e.seedLogin(t, "pm") // stored lower-case on purpose

	// Submit an entry as the consultant.
	rr := e.do(t, http.MethodPost, "/api/timesheets", consultantCookie, map[string]interface{}{
		"projectId": uuid.NewString(),
		"workDate":  "2026-08-31",
		"hours":     7.5,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	entry := decodeBody(t, rr)["data"].(map[string]interface{})
	entryID := entry["id"].(string)
	require.Equal(t, consultant.ID, entry["userId"])

	// Consultants cannot approve.
	rr = e.do(t, http.MethodPost, "/api/timesheets/"+entryID+"/approve", consultantCookie, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// A PM whose stored role name is lower-case can: comparison is
	// case-insensitive.
	rr = e.do(t, http.MethodPost, "/api/timesheets/"+entryID+"/approve", pmCookie, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	approved := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, "approved", approved["status"])

	// Approving twice fails validation.
	rr = e.do(t, http.MethodPost, "/api/timesheets/"+entryID+"/approve", pmCookie, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPendingCountAndDashboard(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RolePM)

	rr := e.do(t, http.MethodPost, "/api/projects", cookie, map[string]string{
		"name": "DX支援", "code": "PRJ-001",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodPost, "/api/timesheets", cookie, map[string]interface{}{
		"projectId": uuid.NewString(), "workDate": "2026-09-01", "hours": 8,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/timesheets/pending-count", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 1, decodeBody(t, rr)["data"].(map[string]interface{})["pending"])

	rr = e.do(t, http.MethodGet, "/api/dashboard", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	require.EqualValues(t, 1, data["activeProjects"])
	require.EqualValues(t, 1, data["pendingApprovals"])
}

func TestProjectMemberRoleValidation(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RolePM)

	rr := e.do(t, http.MethodPost, "/api/projects", cookie, map[string]string{
		"name": "新規案件", "code": "PRJ-002",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	projectID := decodeBody(t, rr)["data"].(map[string]interface{})["id"].(string)

	// System role names are not valid project-member roles.
	rr = e.do(t, http.MethodPost, "/api/projects/"+projectID+"/members", cookie, map[string]interface{}{
		"userId": uuid.NewString(), "role": "Executive",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/projects/"+projectID+"/members", cookie, map[string]interface{}{
		"userId": uuid.NewString(), "role": "LEAD",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	member := decodeBody(t, rr)["data"].(map[string]interface{})
	require.Equal(t, "lead", member["role"], "project roles are stored lower-cased")
}

func TestRevenueSummaryExecutiveOnly(t *testing.T) {
	e := newTestEnv(t)
	_, pmCookie := e.seedLogin(t, auth.RolePM)
	_, execCookie := e.seedLogin(t, auth.RoleExecutive)

	db := e.reg.Get(database.Finance)
	require.NoError(t, db.Create(&models.RevenueRecord{
		ID: uuid.NewString(), ProjectID: uuid.NewString(), Month: "2026-08", Amount: 1200000,
	}).Error)

	rr := e.do(t, http.MethodGet, "/api/finance/revenue-summary", pmCookie, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/finance/revenue-summary", execCookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rows := decodeBody(t, rr)["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	require.Equal(t, "2026-08", row["month"])
	require.EqualValues(t, 1200000, row["total"])
}

func TestNotificationsFlow(t *testing.T) {
	e := newTestEnv(t)
	u, cookie := e.seedLogin(t, auth.RoleConsultant)

	db := e.reg.Get(database.Notification)
	n := models.Notification{
		ID: uuid.NewString(), UserID: u.ID, Type: "approval",
		Title: "承認依頼", Body: "", Metadata: models.JSONB(`{"entryId":"x"}`),
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&n).Error)

	rr := e.do(t, http.MethodGet, "/api/notifications/unread-count", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 1, decodeBody(t, rr)["data"].(map[string]interface{})["unread"])

	rr = e.do(t, http.MethodPost, "/api/notifications/"+n.ID+"/read", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/notifications/unread-count", cookie, nil)
	require.EqualValues(t, 0, decodeBody(t, rr)["data"].(map[string]interface{})["unread"])

	// Other users never see it.
	_, otherCookie := e.seedLogin(t, auth.RoleConsultant)
	rr = e.do(t, http.MethodGet, "/api/notifications", otherCookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, decodeBody(t, rr)["data"])
}

func TestUseCaseListingOrder(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)
	uc := e.seedUseCase(t)

	store := parasol.NewStore(e.reg.Get(database.Parasol))
	op, err := store.OperationByID(uc.OperationID)
	require.NoError(t, err)

	rr := e.do(t, http.MethodPost, "/api/parasol/operations/"+op.ID+"/use-cases", cookie,
		map[string]interface{}{"name": "先頭に出るユースケース", "displayOrder": -1})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/parasol/operations/"+op.ID+"/use-cases", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeBody(t, rr)["data"].([]interface{})
	require.Len(t, list, 2)
	first := list[0].(map[string]interface{})
	require.Equal(t, "先頭に出るユースケース", first["name"])
}

func TestAdminUsersExecutiveOnly(t *testing.T) {
	e := newTestEnv(t)
	_, consultantCookie := e.seedLogin(t, auth.RoleConsultant)
	_, execCookie := e.seedLogin(t, auth.RoleExecutive)

	rr := e.do(t, http.MethodGet, "/api/admin/users", consultantCookie, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/admin/users", execCookie, map[string]string{
		"email": "hanako@example.com", "password": "pw123456", "name": "Hanako", "role": "consultant",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeBody(t, rr)["data"].(map[string]interface{})
	userID := created["id"].(string)

	rr = e.do(t, http.MethodDelete, "/api/admin/users/"+userID, execCookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// Deactivated users cannot log in.
	rr = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "hanako@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshCookie(t *testing.T) {
	e := newTestEnv(t)
	_, cookie := e.seedLogin(t, auth.RoleConsultant)

	rr := e.do(t, http.MethodPost, "/api/auth/refresh", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var refreshed *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			refreshed = c
		}
	}
	require.NotNil(t, refreshed)
	require.Equal(t, cookie, refreshed.Value)
	require.Equal(t, int((8 * time.Hour).Seconds()), refreshed.MaxAge)
}
