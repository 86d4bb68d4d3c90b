package dto

type CoordinatesBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteResultResponse struct {
	Geometry        []CoordinatesBody `json:"geometry"`
	DistanceMeters  int               `json:"distance_meters"`
	DurationSeconds int               `json:"duration_seconds"`
}

type RouteStateResponse struct {
	State     string               `json:"state"`
	Start     *CoordinatesBody     `json:"start"`
	Waypoints []int64              `json:"waypoints"`
	Result    *RouteResultResponse `json:"result"`
	InFlight  bool                 `json:"in_flight"`
}

type AddWaypointRequest struct {
	SiteID int64 `json:"site_id"`
}

type OptimizeResponse struct {
	Order   []int64             `json:"order"`
	Dropped []CoordinatesBody   `json:"dropped"`
	Result  RouteResultResponse `json:"result"`
}
