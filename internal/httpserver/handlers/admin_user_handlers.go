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

func ListUsers(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		if err := db.Preload("Role").Preload("Organization").
			Order("created_at desc").Find(&users).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, users)
	}
}

func CreateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Name     string `json:"name"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password required")
			return
		}
		if req.Role == "" {
			req.Role = auth.RoleConsultant
		}
		var role models.Role
		if err := db.First(&role, "LOWER(name) = ?", strings.ToLower(req.Role)).Error; err != nil {
			respondError(w, http.StatusBadRequest, "unknown role")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		now := time.Now()
		u := models.User{
			ID:           uuid.NewString(),
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			RoleID:       role.ID,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(&u).Error; err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		lg.Infow("user created", "user", u.ID, "role", role.Name)
		respondData(w, http.StatusCreated, map[string]string{"id": u.ID})
	}
}

func UpdateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Name     *string `json:"name"`
			IsActive *bool   `json:"isActive"`
			Password *string `json:"password"`
			Role     *string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			u.PasswordHash = hash
		}
		if req.Role != nil {
			var role models.Role
			if err := db.First(&role, "LOWER(name) = ?", strings.ToLower(*req.Role)).Error; err != nil {
				respondError(w, http.StatusBadRequest, "unknown role")
				return
			}
			u.RoleID = role.ID
		}
		u.UpdatedAt = time.Now()
		if err := db.Save(&u).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("user updated", "user", u.ID)
		respondData(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

// DeactivateUser soft-disables the account; rows are never hard-deleted
// because timesheets and documents reference them.
func DeactivateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			respondError(w, http.StatusInternalServerError, res.Error.Error())
			return
		}
		if res.RowsAffected == 0 {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		lg.Infow("user deactivated", "user", id)
		respondData(w, http.StatusOK, map[string]bool{"deactivated": true})
	}
}
