package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Default number of rows returned by API listings when the `no` query
// parameter is absent.
const defaultAPILimit = 20

func limitParam(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("no"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func apiError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"error_msg": msg,
	})
}
