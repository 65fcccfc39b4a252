package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is loaded once at startup from environment variables.
// Every business domain gets its own database URL; a domain falls back
// to DATABASE_URL when its dedicated variable is unset, so a single
// database works for local development.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	HTTPPort string `env:"HTTP_PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	JWTSecret string `env:"JWT_SECRET"`

	DatabaseURL             string `env:"DATABASE_URL"`
	AuthDatabaseURL         string `env:"AUTH_DATABASE_URL"`
	ProjectDatabaseURL      string `env:"PROJECT_DATABASE_URL"`
	ResourceDatabaseURL     string `env:"RESOURCE_DATABASE_URL"`
	TimesheetDatabaseURL    string `env:"TIMESHEET_DATABASE_URL"`
	NotificationDatabaseURL string `env:"NOTIFICATION_DATABASE_URL"`
	KnowledgeDatabaseURL    string `env:"KNOWLEDGE_DATABASE_URL"`
	ParasolDatabaseURL      string `env:"PARASOL_DATABASE_URL"`
	FinanceDatabaseURL      string `env:"FINANCE_DATABASE_URL"`
}

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	return &cfg, nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// SessionDuration is the session (and cookie) lifetime: 2h in
// production, 8h everywhere else.
func (c *Config) SessionDuration() time.Duration {
	if c.IsProduction() {
		return 2 * time.Hour
	}
	return 8 * time.Hour
}

// DomainURL resolves the connection string for a named domain,
// falling back to the shared DATABASE_URL.
func (c *Config) DomainURL(domain string) string {
	urls := map[string]string{
		"auth":         c.AuthDatabaseURL,
		"project":      c.ProjectDatabaseURL,
		"resource":     c.ResourceDatabaseURL,
		"timesheet":    c.TimesheetDatabaseURL,
		"notification": c.NotificationDatabaseURL,
		"knowledge":    c.KnowledgeDatabaseURL,
		"parasol":      c.ParasolDatabaseURL,
		"finance":      c.FinanceDatabaseURL,
	}
	if u := urls[domain]; u != "" {
		return u
	}
	return c.DatabaseURL
}
