package handlers

import (
	"net/http"
	"time"
	"treatment-site-service/internal/api/dto"
	"treatment-site-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionHandler serves the per-session route planner and bulk panel.
type SessionHandler struct {
	Registry *services.SessionRegistry
	Now      func() time.Time
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Registry.Create()
	writeJSON(w, r, http.StatusCreated, dto.SessionResponse{ID: s.ID, CreatedAt: s.CreatedAt})
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if !h.Registry.End(id) {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return nil, false
	}
	s, ok := h.Registry.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "sid must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
