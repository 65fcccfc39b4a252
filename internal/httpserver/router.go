package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"consultdesk/internal/auth"
	"consultdesk/internal/config"
	"consultdesk/internal/database"
	"consultdesk/internal/httpserver/handlers"
	"consultdesk/internal/parasol"
)

// NewRouter wires the full API surface over the per-domain registry.
// Everything under /api except login and health requires a session;
// timesheet approval and revenue are additionally role-gated.
func NewRouter(reg *database.Registry, sessions *auth.SessionStore, cfg *config.Config, lg *zap.SugaredLogger) http.Handler {
	store := parasol.NewStore(reg.Get(database.Parasol))
	authDB := reg.Get(database.Auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Get("/api/health", handlers.Health(cfg))
	r.Post("/api/auth/login", handlers.Login(authDB, sessions, cfg.JWTSecret, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.SessionAuth(sessions, cfg.JWTSecret))

		protected.Post("/api/auth/logout", handlers.Logout(sessions))
		protected.Get("/api/auth/me", handlers.Me())
		protected.Post("/api/auth/refresh", handlers.RefreshCookie(sessions))

		protected.Route("/api/parasol", func(p chi.Router) {
			p.Get("/services", handlers.ListServices(store))
			p.Post("/services", handlers.CreateService(store, lg))
			p.Get("/services/{serviceName}", handlers.GetService(store))
			p.Get("/services/{serviceName}/capabilities", handlers.ListCapabilities(store))
			p.Post("/services/{serviceName}/capabilities", handlers.CreateCapability(store, lg))
			p.Get("/capabilities/{capabilityId}/operations", handlers.ListOperations(store))
			p.Post("/capabilities/{capabilityId}/operations", handlers.CreateOperation(store, lg))
			p.Get("/operations/{operationId}/use-cases", handlers.ListUseCases(store))
			p.Post("/operations/{operationId}/use-cases", handlers.CreateUseCase(store, lg))

			p.Get("/use-cases/{useCaseId}/page-definition", handlers.GetPageDefinition(store))
			p.Put("/use-cases/{useCaseId}/page-definition", handlers.PutPageDefinition(store, lg))
			p.Get("/pages/duplicates", handlers.DuplicatePageNames(store))

			p.Get("/robustness", handlers.GetRobustness(store))
			p.Post("/robustness", handlers.UpsertRobustness(store, lg))

			p.Get("/services/{serviceName}/api-specification", handlers.GetAPISpecification(store))
			p.Put("/services/{serviceName}/api-specification", handlers.PutAPISpecification(store, lg))
			p.Get("/services/{serviceName}/database-design", handlers.GetDatabaseDesign(store))
			p.Put("/services/{serviceName}/database-design", handlers.PutDatabaseDesign(store, lg))
			p.Get("/services/{serviceName}/integration-specification", handlers.GetIntegrationSpecification(store))
			p.Put("/services/{serviceName}/integration-specification", handlers.PutIntegrationSpecification(store, lg))
			// Addressed by surrogate id, unlike the sibling documents.
			// The placeholder name is shared because chi requires one
			// name per wildcard position; the handlers treat the value
			// as an id.
			p.Get("/services/{serviceName}/domain-language", handlers.GetDomainLanguage(store))
			p.Put("/services/{serviceName}/domain-language", handlers.PutDomainLanguage(store, lg))
		})

		protected.Get("/api/projects", handlers.ListProjects(reg.Get(database.Project), lg))
		protected.Post("/api/projects", handlers.CreateProject(reg.Get(database.Project), lg))
		protected.Get("/api/projects/{id}/members", handlers.ListProjectMembers(reg.Get(database.Project)))
		protected.Post("/api/projects/{id}/members", handlers.AddProjectMember(reg.Get(database.Project), lg))

		protected.Post("/api/timesheets", handlers.SubmitTimesheet(reg.Get(database.Timesheet), lg))
		protected.Get("/api/timesheets/pending-count", handlers.PendingApprovalCount(reg.Get(database.Timesheet)))
		protected.Group(func(approvers chi.Router) {
			approvers.Use(auth.RequireAnyRole(auth.RolePM, auth.RoleExecutive))
			approvers.Post("/api/timesheets/{id}/approve", handlers.ApproveTimesheet(reg.Get(database.Timesheet), lg))
		})

		protected.Get("/api/notifications", handlers.ListNotifications(reg.Get(database.Notification)))
		protected.Get("/api/notifications/unread-count", handlers.UnreadNotificationCount(reg.Get(database.Notification)))
		protected.Post("/api/notifications/{id}/read", handlers.MarkNotificationRead(reg.Get(database.Notification)))

		protected.Get("/api/knowledge/articles", handlers.ListArticles(reg.Get(database.Knowledge)))
		protected.Post("/api/knowledge/articles", handlers.CreateArticle(reg.Get(database.Knowledge), lg))

		protected.Get("/api/dashboard", handlers.Dashboard(reg.Get(database.Project), reg.Get(database.Timesheet)))

		protected.Group(func(exec chi.Router) {
			exec.Use(auth.RequireAnyRole(auth.RoleExecutive))
			exec.Get("/api/finance/revenue-summary", handlers.RevenueSummary(reg.Get(database.Finance)))
			exec.Get("/api/admin/users", handlers.ListUsers(authDB, lg))
			exec.Post("/api/admin/users", handlers.CreateUser(authDB, lg))
			exec.Patch("/api/admin/users/{id}", handlers.UpdateUser(authDB, lg))
			exec.Delete("/api/admin/users/{id}", handlers.DeactivateUser(authDB, lg))
		})
	})

	return r
}
