package handlers

import (
	"net/http"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

// Stats aggregates over a fresh listing on every call so the numbers
// always reflect the registry at call time.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.registry.List(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   models.Aggregate(scripts),
	})
}

// History serves the best-effort audit trail, newest first.
func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("History listing failed")
		writeError(w, http.StatusInternalServerError, "internal error", h.detail(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": entries,
	})
}

// Test is the diagnostics endpoint the dashboard frontend pings.
func (h *DashboardHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Dashboard API is working!",
		"mode":    h.registry.Mode(),
	})
}
