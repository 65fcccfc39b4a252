package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/models"
)

func ListNotifications(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ns []models.Notification
		err := db.Where("user_id = ?", auth.UserID(r.Context())).
			Order("created_at desc").Limit(100).Find(&ns).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, ns)
	}
}

func UnreadNotificationCount(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var count int64
		err := db.Model(&models.Notification{}).
			Where("user_id = ? AND read_at IS NULL", auth.UserID(r.Context())).
			Count(&count).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, map[string]int64{"unread": count})
	}
}

// MarkNotificationRead is idempotent; marking an already-read
// notification keeps its original ReadAt.
func MarkNotificationRead(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var n models.Notification
		err := db.First(&n, "id = ? AND user_id = ?", id, auth.UserID(r.Context())).Error
		if err != nil {
			respondError(w, http.StatusNotFound, "notification not found")
			return
		}
		if n.ReadAt == nil {
			now := time.Now()
			n.ReadAt = &now
			if err := db.Save(&n).Error; err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		respondData(w, http.StatusOK, n)
	}
}
