package handlers

import (
	"net/http"
	"treatment-site-service/internal/api/dto"
)

func (h *SessionHandler) BulkState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toBulkStateResponse(s.Bulk.State()))
}

func (h *SessionHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.UpdateBulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	filter := toFilter(req.Filter)
	if filter.Type != "" && !filter.Type.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown site type")
		return
	}
	switch {
	case !req.Open:
		s.Bulk.Close()
	case s.Bulk.State().Open:
		if err := s.Bulk.SetFilter(filter); err != nil {
			writeServiceError(w, r, http.StatusInternalServerError, err)
			return
		}
	default:
		s.Bulk.Open(filter)
	}
	writeJSON(w, r, http.StatusOK, toBulkStateResponse(s.Bulk.State()))
}

func (h *SessionHandler) BulkToggle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	selected, err := s.Bulk.Toggle(id)
	if err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToggleResponse{ID: id, Selected: selected})
}

func (h *SessionHandler) BulkSelectAll(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := s.Bulk.SelectAll()
	if err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SelectAllResponse{Selected: n})
}

func (h *SessionHandler) BulkClear(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Bulk.Clear()
	writeJSON(w, r, http.StatusOK, toBulkStateResponse(s.Bulk.State()))
}

// BulkMarkTreated treats every selected site now. Per-site failures are
// reported in the body; successes are kept.
func (h *SessionHandler) BulkMarkTreated(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := s.Bulk.ApplyMarkTreated(r.Context(), h.Now())
	if err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, r, status, toBulkResultResponse(res))
}

func (h *SessionHandler) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ids, err := s.Bulk.ApplyDeactivate()
	if err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, r, http.StatusOK, dto.DeactivateResponse{Deactivated: ids})
}
