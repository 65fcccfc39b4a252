package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/models"
)

func ListArticles(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var as []models.KnowledgeArticle
		if err := db.Order("updated_at desc").Limit(100).Find(&as).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, as)
	}
}

func CreateArticle(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title   string   `json:"title"`
			Content string   `json:"content"`
			Tags    []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			respondError(w, http.StatusBadRequest, "title required")
			return
		}
		tags, _ := json.Marshal(req.Tags)
		now := time.Now()
		a := models.KnowledgeArticle{
			ID:        uuid.NewString(),
			AuthorID:  auth.UserID(r.Context()),
			Title:     req.Title,
			Content:   req.Content,
			Tags:      models.JSONB(tags),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.Create(&a).Error; err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("article created", "article", a.ID, "author", a.AuthorID)
		respondData(w, http.StatusCreated, a)
	}
}
