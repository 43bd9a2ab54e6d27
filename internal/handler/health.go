package handler

import "net/http"

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Health handles GET /api/health. With a database configured it reports its
// reachability; without one the service is still healthy on the ephemeral tier.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Message:  "CodeTeak API",
			Database: "unconfigured",
		})
		return
	}

	if err := h.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "unhealthy",
			Message:  err.Error(),
			Database: "down",
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Message:  "CodeTeak API",
		Database: "up",
	})
}
