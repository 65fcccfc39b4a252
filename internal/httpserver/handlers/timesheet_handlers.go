package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/models"
)

func SubmitTimesheet(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProjectID string  `json:"projectId"`
			WorkDate  string  `json:"workDate"` // YYYY-MM-DD
			Hours     float64 `json:"hours"`
			Note      string  `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.ProjectID == "" {
			respondError(w, http.StatusBadRequest, "projectId required")
			return
		}
		workDate, err := time.Parse("2006-01-02", req.WorkDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "workDate must be YYYY-MM-DD")
			return
		}
		if req.Hours <= 0 || req.Hours > 24 {
			respondError(w, http.StatusBadRequest, "hours must be between 0 and 24")
			return
		}
		now := time.Now()
		entry := models.TimesheetEntry{
			ID:        uuid.NewString(),
			UserID:    auth.UserID(r.Context()),
			ProjectID: req.ProjectID,
			WorkDate:  workDate,
			Hours:     req.Hours,
			Note:      req.Note,
			Status:    "submitted",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.Create(&entry).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("timesheet submitted", "entry", entry.ID, "user", entry.UserID)
		respondData(w, http.StatusCreated, entry)
	}
}

// PendingApprovalCount backs the client's 30-second poll on the
// approval badge. Read-only and cheap: a single count.
func PendingApprovalCount(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var count int64
		if err := db.Model(&models.TimesheetEntry{}).
			Where("status = ?", "submitted").Count(&count).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, map[string]int64{"pending": count})
	}
}

// ApproveTimesheet is reachable only through the pm/executive role gate
// in the router; the handler records who approved.
func ApproveTimesheet(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var entry models.TimesheetEntry
		if err := db.First(&entry, "id = ?", id).Error; err != nil {
			respondError(w, http.StatusNotFound, "timesheet entry not found")
			return
		}
		if entry.Status != "submitted" {
			respondError(w, http.StatusBadRequest, "entry is not awaiting approval")
			return
		}
		approver := auth.UserID(r.Context())
		entry.Status = "approved"
		entry.ApproverID = &approver
		entry.UpdatedAt = time.Now()
		if err := db.Save(&entry).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("timesheet approved", "entry", entry.ID, "approver", approver)
		respondData(w, http.StatusOK, entry)
	}
}
