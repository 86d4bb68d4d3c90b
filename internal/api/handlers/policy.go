package handlers

import (
	"net/http"
	"treatment-site-service/internal/api/dto"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/services"
)

type PolicyHandler struct {
	Config  *services.ConfigStore
	Catalog domain.Catalog
}

func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toPolicyResponse(h.Config.Snapshot(), h.Catalog))
}

// Update applies every edit in the body to one draft and commits it. Either
// all edits take effect or none do.
func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePolicyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draft := h.Config.Draft()
	for _, t := range sortedTypes(req.Durations) {
		d := req.Durations[t]
		if err := draft.SetDuration(domain.SiteType(t), domain.Duration{Days: d.Days, Hours: d.Hours, Minutes: d.Minutes}); err != nil {
			writeServiceError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	for _, t := range sortedTypes(req.Paused) {
		if err := draft.SetPaused(domain.SiteType(t), req.Paused[t]); err != nil {
			writeServiceError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	if err := h.Config.Commit(r.Context(), draft); err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPolicyResponse(h.Config.Snapshot(), h.Catalog))
}
