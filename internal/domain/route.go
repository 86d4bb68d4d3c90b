package domain

// Computed road route through an ordered list of points.
// Geometry is stored in (lat, lon) order; distance and duration are rounded
// to whole meters and seconds.
type RouteResult struct {
	Geometry        []Coordinates
	DistanceMeters  int
	DurationSeconds int
}

// A single input point as placed in an optimized trip.
// InputIndex is the position in the request; WaypointIndex is the position
// in the optimized visiting order.
type TripWaypoint struct {
	InputIndex    int
	WaypointIndex int
	Location      Coordinates
}

// Optimized trip returned by a routing service.
type Trip struct {
	Route     RouteResult
	Waypoints []TripWaypoint
}

// Lifecycle of a session's route.
type RouteState string

const (
	RouteEmpty    RouteState = "empty"
	RouteBuilding RouteState = "building"
	RoutePlanned  RouteState = "planned"
	RouteStale    RouteState = "stale"
)
