package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"

	"golang.org/x/time/rate"
)

// OSRMClient implements ports.TripProvider against an OSRM-compatible
// HTTP service.
//
// Coordinates are sent as lon,lat and converted back to lat,lon. Requests
// are rate limited and never retried. The client is safe for concurrent use.
type OSRMClient struct {
	session *http.Client
	baseURL string
	profile string
	limiter *rate.Limiter
}

// NewOSRMClient builds a client for baseURL. perSecond limits outbound
// requests; zero disables the limit.
func NewOSRMClient(baseURL string, profile string, perSecond float64) (*OSRMClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if profile == "" {
		profile = "driving"
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}

	return &OSRMClient{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		profile: profile,
		limiter: limiter,
	}, nil
}

type osrmGeometry struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type osrmRoute struct {
	Geometry osrmGeometry `json:"geometry"`
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
}

type osrmWaypoint struct {
	WaypointIndex int       `json:"waypoint_index"`
	TripsIndex    int       `json:"trips_index"`
	Location      []float64 `json:"location"`
}

type routeResponse struct {
	osrmStatus
	Routes []osrmRoute `json:"routes"`
}

type tripResponse struct {
	osrmStatus
	Trips     []osrmRoute    `json:"trips"`
	Waypoints []osrmWaypoint `json:"waypoints"`
}

// Route returns the road route visiting points in order.
func (o *OSRMClient) Route(ctx context.Context, points []domain.Coordinates) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	path, err := coordinatePath(points)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("osrm route: %w", err)
	}

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson", o.baseURL, o.profile, path)

	var body routeResponse
	if err := o.getJSON(ctx, "route", url, &body); err != nil {
		return domain.RouteResult{}, fmt.Errorf("osrm route: %w", err)
	}
	if body.Code != "Ok" {
		return domain.RouteResult{}, fmt.Errorf("osrm route: code %q: %s: %w", body.Code, body.Message, domain.ErrNoRoute)
	}
	if len(body.Routes) == 0 {
		return domain.RouteResult{}, fmt.Errorf("osrm route: empty routes: %w", domain.ErrNoRoute)
	}

	res, err := toRouteResult(body.Routes[0])
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("osrm route: %w", err)
	}
	return res, nil
}

// Trip returns the optimized visiting order that starts at points[0] and
// does not return to it.
func (o *OSRMClient) Trip(ctx context.Context, points []domain.Coordinates) (_ domain.Trip, err error) {
	defer obs.Time(ctx, "osrm.Trip")(&err)

	path, err := coordinatePath(points)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("osrm trip: %w", err)
	}

	url := fmt.Sprintf(
		"%s/trip/v1/%s/%s?source=first&roundtrip=false&overview=full&geometries=geojson",
		o.baseURL, o.profile, path,
	)

	var body tripResponse
	if err := o.getJSON(ctx, "trip", url, &body); err != nil {
		return domain.Trip{}, fmt.Errorf("osrm trip: %w", err)
	}
	if body.Code != "Ok" {
		return domain.Trip{}, fmt.Errorf("osrm trip: code %q: %s: %w", body.Code, body.Message, domain.ErrNoRoute)
	}
	if len(body.Trips) == 0 {
		return domain.Trip{}, fmt.Errorf("osrm trip: empty trips: %w", domain.ErrNoRoute)
	}

	route, err := toRouteResult(body.Trips[0])
	if err != nil {
		return domain.Trip{}, fmt.Errorf("osrm trip: %w", err)
	}

	// Waypoints come back in input order.
	waypoints := make([]domain.TripWaypoint, 0, len(body.Waypoints))
	for i, wp := range body.Waypoints {
		loc, err := domain.FromLonLat(wp.Location)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("osrm trip: waypoint %d: %w", i, err)
		}
		waypoints = append(waypoints, domain.TripWaypoint{
			InputIndex:    i,
			WaypointIndex: wp.WaypointIndex,
			Location:      loc,
		})
	}

	return domain.Trip{Route: route, Waypoints: waypoints}, nil
}

// coordinatePath renders points as "lon,lat;lon,lat".
func coordinatePath(points []domain.Coordinates) (string, error) {
	if len(points) < 2 {
		return "", domain.Invalid("need at least 2 points, got %d", len(points))
	}

	parts := make([]string, 0, len(points))
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return "", fmt.Errorf("point %d: %w", i, err)
		}
		ll := p.CoordsToList()
		parts = append(parts, strconv.FormatFloat(ll[0], 'f', -1, 64)+","+strconv.FormatFloat(ll[1], 'f', -1, 64))
	}
	return strings.Join(parts, ";"), nil
}

// OSRM returns float metrics; round to whole meters and seconds.
func toRouteResult(r osrmRoute) (domain.RouteResult, error) {
	geometry := make([]domain.Coordinates, 0, len(r.Geometry.Coordinates))
	for i, pair := range r.Geometry.Coordinates {
		c, err := domain.FromLonLat(pair)
		if err != nil {
			return domain.RouteResult{}, fmt.Errorf("geometry point %d: %w", i, err)
		}
		geometry = append(geometry, c)
	}

	return domain.RouteResult{
		Geometry:        geometry,
		DistanceMeters:  int(math.Round(r.Distance)),
		DurationSeconds: int(math.Round(r.Duration)),
	}, nil
}
