package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/models"
)

func ListProjects(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ps []models.Project
		if err := db.Order("created_at desc").Find(&ps).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, ps)
	}
}

func CreateProject(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name       string `json:"name"`
			Code       string `json:"code"`
			ClientName string `json:"clientName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
			respondError(w, http.StatusBadRequest, "name and code required")
			return
		}
		now := time.Now()
		p := models.Project{
			ID:         uuid.NewString(),
			Name:       req.Name,
			Code:       req.Code,
			ClientName: req.ClientName,
			Status:     "active",
			StartDate:  now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Create(&p).Error; err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		lg.Infow("project created", "project", p.ID, "code", p.Code)
		respondData(w, http.StatusCreated, p)
	}
}

func ListProjectMembers(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		var members []models.ProjectMember
		if err := db.Where("project_id = ?", projectID).Order("created_at asc").Find(&members).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, members)
	}
}

// AddProjectMember validates against the project-member role set, which
// is separate from system roles; values are stored lower-cased.
func AddProjectMember(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		var req struct {
			UserID     string `json:"userId"`
			Role       string `json:"role"`
			Allocation int    `json:"allocation"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.UserID == "" {
			respondError(w, http.StatusBadRequest, "userId required")
			return
		}
		if !auth.IsProjectRole(req.Role) {
			respondError(w, http.StatusBadRequest, "unknown project role")
			return
		}
		if req.Allocation <= 0 {
			req.Allocation = 100
		}
		now := time.Now()
		m := models.ProjectMember{
			ID:         uuid.NewString(),
			ProjectID:  projectID,
			UserID:     req.UserID,
			Role:       strings.ToLower(req.Role),
			Allocation: req.Allocation,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Create(&m).Error; err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		lg.Infow("project member added", "project", projectID, "user", req.UserID, "role", m.Role)
		respondData(w, http.StatusCreated, m)
	}
}
