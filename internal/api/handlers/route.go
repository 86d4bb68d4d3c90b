package handlers

import (
	"net/http"
	"treatment-site-service/internal/api/dto"
	"treatment-site-service/internal/domain"
)

func (h *SessionHandler) RouteState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteStateResponse(s.Planner.Snapshot()))
}

func (h *SessionHandler) RoutePosition(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.CoordinatesBody
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.Planner.UpdatePosition(domain.Coordinates{Lat: req.Lat, Lon: req.Lng}); err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteStateResponse(s.Planner.Snapshot()))
}

func (h *SessionHandler) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req dto.AddWaypointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.Planner.AddWaypoint(req.SiteID); err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteStateResponse(s.Planner.Snapshot()))
}

func (h *SessionHandler) RemoveWaypoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	if err := s.Planner.RemoveWaypoint(id); err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteStateResponse(s.Planner.Snapshot()))
}

func (h *SessionHandler) MoveWaypointUp(w http.ResponseWriter, r *http.Request) {
	h.moveWaypoint(w, r, true)
}

func (h *SessionHandler) MoveWaypointDown(w http.ResponseWriter, r *http.Request) {
	h.moveWaypoint(w, r, false)
}

func (h *SessionHandler) moveWaypoint(w http.ResponseWriter, r *http.Request, up bool) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	idx, ok := pathInt(w, r, "idx")
	if !ok {
		return
	}
	move := s.Planner.MoveDown
	if up {
		move = s.Planner.MoveUp
	}
	if err := move(idx); err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteStateResponse(s.Planner.Snapshot()))
}

// BuildRoute routes through the waypoints in list order.
func (h *SessionHandler) BuildRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := s.Planner.Build(r.Context())
	if err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteResultResponse(res))
}

// OptimizeRoute reorders the waypoints into the routing service's best
// visiting order.
func (h *SessionHandler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := s.Planner.Optimize(r.Context())
	if err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}

	res := dto.OptimizeResponse{
		Order:   out.Order,
		Dropped: make([]dto.CoordinatesBody, 0, len(out.Dropped)),
		Result:  toRouteResultResponse(out.Result),
	}
	for _, c := range out.Dropped {
		res.Dropped = append(res.Dropped, toCoordinatesBody(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SessionHandler) ResetRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Planner.Reset()
	w.WriteHeader(http.StatusNoContent)
}
