package api

import (
	"net/http"
	"time"
	"treatment-site-service/internal/api/handlers"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
	"treatment-site-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// Deps are the services the HTTP surface needs. Handlers stay unaware of
// concrete adapters.
type Deps struct {
	Sites    *services.SiteService
	Board    *services.CountdownBoard
	Config   *services.ConfigStore
	Catalog  domain.Catalog
	Sessions *services.SessionRegistry
	Tick     *services.TickSource
	Events   http.Handler
	Now      func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	health := &handlers.HealthHandler{Board: d.Board, Tick: d.Tick}
	sites := &handlers.SiteHandler{Sites: d.Sites, Board: d.Board, Now: now}
	policy := &handlers.PolicyHandler{Config: d.Config, Catalog: d.Catalog}
	dashboard := &handlers.DashboardHandler{Board: d.Board}
	sessions := &handlers.SessionHandler{Registry: d.Sessions, Now: now}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", health.Health)
	r.Handle("/metrics", obs.Handler())
	if d.Events != nil {
		r.Handle("/events", d.Events)
	}

	r.Route("/sites", func(r chi.Router) {
		r.Get("/", sites.List)
		r.Post("/", sites.Create)
		r.Patch("/{id}", sites.Update)
		r.Delete("/{id}", sites.Delete)
		r.Post("/{id}/treat", sites.Treat)
		r.Put("/{id}/active", sites.SetActive)
	})

	r.Get("/policy", policy.Get)
	r.Put("/policy", policy.Update)
	r.Get("/dashboard", dashboard.Get)

	r.Post("/sessions", sessions.Create)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Delete("/", sessions.End)

		r.Get("/bulk", sessions.BulkState)
		r.Put("/bulk", sessions.BulkUpdate)
		r.Post("/bulk/toggle/{id}", sessions.BulkToggle)
		r.Post("/bulk/select-all", sessions.BulkSelectAll)
		r.Post("/bulk/clear", sessions.BulkClear)
		r.Post("/bulk/mark-treated", sessions.BulkMarkTreated)
		r.Post("/bulk/deactivate", sessions.BulkDeactivate)

		r.Get("/route", sessions.RouteState)
		r.Delete("/route", sessions.ResetRoute)
		r.Put("/route/position", sessions.RoutePosition)
		r.Post("/route/waypoints", sessions.AddWaypoint)
		r.Delete("/route/waypoints/{id}", sessions.RemoveWaypoint)
		r.Post("/route/waypoints/{idx}/up", sessions.MoveWaypointUp)
		r.Post("/route/waypoints/{idx}/down", sessions.MoveWaypointDown)
		r.Post("/route/build", sessions.BuildRoute)
		r.Post("/route/optimize", sessions.OptimizeRoute)
	})

	return r
}
