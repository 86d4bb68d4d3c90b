package handlers

import (
	"net/http"
	"treatment-site-service/internal/services"
)

type DashboardHandler struct {
	Board *services.CountdownBoard
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	views, at := h.Board.Latest()
	writeJSON(w, r, http.StatusOK, toDashboardResponse(services.BuildDashboard(views, at)))
}
