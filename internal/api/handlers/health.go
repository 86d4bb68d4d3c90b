package handlers

import (
	"net/http"
	"time"
	"treatment-site-service/internal/services"
)

// HealthHandler reports liveness and how fresh the countdown board is.
type HealthHandler struct {
	Board *services.CountdownBoard
	Tick  *services.TickSource
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"status": "ok"}
	if h.Tick != nil {
		res["ticking"] = h.Tick.Running()
	}
	if h.Board != nil {
		if _, at := h.Board.Latest(); !at.IsZero() {
			res["last_tick"] = at.UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, r, http.StatusOK, res)
}
