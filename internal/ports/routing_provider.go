package ports

import (
	"context"
	"treatment-site-service/internal/domain"
)

// Contract for computing a road route through points in the given order.
type RouteProvider interface {
	// Return geometry, distance and duration for the route visiting points in order.
	Route(ctx context.Context, points []domain.Coordinates) (domain.RouteResult, error)
}

// Optional extension of RouteProvider that can reorder points.
type TripProvider interface {
	RouteProvider
	// Return the optimized visiting order starting from points[0], without
	// returning to it.
	Trip(ctx context.Context, points []domain.Coordinates) (domain.Trip, error)
}
