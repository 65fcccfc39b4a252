package handlers

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondData wraps a payload in the {"success":true,"data":…} envelope
// every successful endpoint uses.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, map[string]interface{}{"success": true, "data": data})
}

// respondError emits the {"error":…} shape. Infrastructure errors pass
// their raw message through; this is an internal tool and the
// diagnostic convenience is deliberate.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
