package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"consultdesk/internal/auth"
	"consultdesk/internal/config"
	"consultdesk/internal/database"
	"consultdesk/internal/httpserver"
	"consultdesk/internal/logger"
	"consultdesk/internal/models"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	reg, err := database.Open(cfg)
	if err != nil {
		lg.Fatalw("open stores", "error", err)
	}
	defer reg.Close()

	authDB := reg.Get(database.Auth)
	seedRoles(authDB)
	seedDefaultAdmin(authDB, lg)

	sessions := auth.NewSessionStore(authDB, cfg.SessionDuration(), cfg.IsProduction())
	router := httpserver.NewRouter(reg, sessions, cfg, lg)

	lg.Infow("listening", "port", cfg.HTTPPort, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

func seedRoles(db *gorm.DB) {
	for _, name := range auth.SystemRoles() {
		var count int64
		db.Model(&models.Role{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			db.Create(&models.Role{Name: name})
		}
	}
}

func seedDefaultAdmin(db *gorm.DB, lg *zap.SugaredLogger) {
	email := "admin@consultdesk.local"
	var count int64
	db.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count)
	if count > 0 {
		return
	}
	var execRole models.Role
	if err := db.First(&execRole, "name = ?", auth.RoleExecutive).Error; err != nil {
		lg.Errorw("executive role missing, skipping admin seed", "error", err)
		return
	}
	hash, _ := auth.HashPassword("changeme")
	now := time.Now()
	u := models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Name:         "Administrator",
		RoleID:       execRole.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&u).Error; err != nil {
		lg.Errorw("seed default admin", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", email)
}
