package handlers

import (
	"net/http"
	"time"
	"treatment-site-service/internal/api/dto"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/services"
)

// SiteHandler exposes the site list with live status and single-site edits.
type SiteHandler struct {
	Sites *services.SiteService
	Board *services.CountdownBoard
	Now   func() time.Time
}

// List returns the views of the last tick that pass the query filters.
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.SiteFilter{
		Type:         domain.SiteType(q.Get("type")),
		District:     q.Get("district"),
		SubType:      q.Get("sub_type"),
		Neighborhood: q.Get("neighborhood"),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown site type")
		return
	}
	window, err := services.ParseWindowFilter(q.Get("window"))
	if err != nil {
		writeServiceError(w, r, http.StatusBadRequest, err)
		return
	}

	views, at := h.Board.Views(filter, window)
	res := dto.ListSitesResponse{At: at, Sites: make([]dto.SiteViewResponse, 0, len(views))}
	for _, v := range views {
		res.Sites = append(res.Sites, toSiteViewResponse(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	site, err := h.Sites.Create(r.Context(), domain.NewSite{
		Type:         domain.SiteType(req.Type),
		Location:     domain.Coordinates{Lat: req.Lat, Lon: req.Lng},
		District:     req.District,
		Neighborhood: req.Neighborhood,
		Address:      req.Address,
		Notes:        req.Notes,
		SubType:      req.SubType,
		Image:        req.Image,
	})
	if err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toSiteResponse(site))
}

func (h *SiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := domain.SitePatch{
		Lat:          req.Lat,
		Lon:          req.Lng,
		District:     req.District,
		Neighborhood: req.Neighborhood,
		Address:      req.Address,
		Notes:        req.Notes,
		SubType:      req.SubType,
		Image:        req.Image,
	}
	if req.Type != nil {
		t := domain.SiteType(*req.Type)
		patch.Type = &t
	}

	if err := h.Sites.Update(r.Context(), id, patch); err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	if err := h.Sites.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Treat records a treatment of one site now.
func (h *SiteHandler) Treat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	if err := h.Sites.MarkTreated(r.Context(), id, h.Now()); err != nil {
		writeServiceError(w, r, http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetActive deactivates or re-activates one site until restart.
func (h *SiteHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Sites.SetActive(id, req.Active); err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
