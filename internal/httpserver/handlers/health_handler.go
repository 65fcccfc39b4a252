package handlers

import (
	"net/http"
	"runtime"
	"time"

	"consultdesk/internal/config"
)

var startedAt = time.Now()

// Health is the liveness probe: environment and runtime metadata, no
// business logic and no database round-trip.
func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondData(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"environment": cfg.Env,
			"goVersion":   runtime.Version(),
			"uptime":      time.Since(startedAt).String(),
			"time":        time.Now().Format(time.RFC3339),
		})
	}
}
