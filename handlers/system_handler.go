package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
)

// SystemHandler owns the simulator synchronization counter. The value is
// best-effort: concurrent writers may interleave and readers just see
// the most recent store.
type SystemHandler struct {
	latest atomic.Int64
}

// NewSystemHandler creates a SystemHandler with the counter unset (-1).
func NewSystemHandler() *SystemHandler {
	h := &SystemHandler{}
	h.latest.Store(-1)
	return h
}

// UpdateLatest records the `latest` query parameter when present.
// Every API handler calls this before doing anything else.
func (h *SystemHandler) UpdateLatest(r *http.Request) {
	raw := r.URL.Query().Get("latest")
	if raw == "" {
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	h.latest.Store(int64(id))
}

// GetLatest returns the last recorded command ID as JSON.
func (h *SystemHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"latest": h.latest.Load()})
}
