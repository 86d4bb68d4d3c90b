package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
	"treatment-site-service/internal/ports"
)

// SiteLookup resolves waypoint ids to sites.
type SiteLookup interface {
	Get(id int64) (domain.Site, bool)
}

// Read-only view of a planner.
type RouteSnapshot struct {
	State     domain.RouteState
	Start     *domain.Coordinates
	Waypoints []int64
	// Nil unless State is RoutePlanned.
	Result   *domain.RouteResult
	InFlight bool
}

// Result of an optimize call. Dropped lists returned waypoints that matched
// no site within the match tolerance.
type OptimizeOutcome struct {
	Order   []int64
	Dropped []domain.Coordinates
	Result  domain.RouteResult
}

type flight struct {
	cancel context.CancelFunc
}

// RoutePlanner holds one session's ordered waypoint list and the route
// computed for it.
//
// At most one routing request runs at a time. Requests are made without
// holding the lock; the result is applied only if the waypoint list was not
// edited, and the session not reset, while the request was in flight.
// A failed request leaves the list and the previous result untouched.
type RoutePlanner struct {
	routing ports.RouteProvider
	sites   SiteLookup
	epsilon float64

	mu        sync.Mutex
	start     *domain.Coordinates
	waypoints []int64
	result    *domain.RouteResult
	state     domain.RouteState
	revision  uint64
	inFlight  *flight
}

func NewRoutePlanner(routing ports.RouteProvider, sites SiteLookup, epsilon float64) *RoutePlanner {
	if epsilon <= 0 {
		epsilon = DefaultMatchEpsilon
	}
	return &RoutePlanner{
		routing: routing,
		sites:   sites,
		epsilon: epsilon,
		state:   domain.RouteEmpty,
	}
}

// UpdatePosition sets the start of the route to the device's live position.
func (p *RoutePlanner) UpdatePosition(pos domain.Coordinates) error {
	if err := pos.Validate(); err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = &pos
	return nil
}

func (p *RoutePlanner) AddWaypoint(id int64) error {
	if _, ok := p.sites.Get(id); !ok {
		return fmt.Errorf("add waypoint: site %d: %w", id, domain.ErrNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if slices.Contains(p.waypoints, id) {
		return fmt.Errorf("add waypoint: %w", domain.Invalid("site %d is already a waypoint", id))
	}
	p.waypoints = append(p.waypoints, id)
	p.editedLocked()
	return nil
}

func (p *RoutePlanner) RemoveWaypoint(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.Index(p.waypoints, id)
	if i < 0 {
		return fmt.Errorf("remove waypoint: site %d: %w", id, domain.ErrNotFound)
	}
	p.waypoints = slices.Delete(p.waypoints, i, i+1)
	p.editedLocked()
	return nil
}

// MoveUp swaps the waypoint at idx with its predecessor. Moving the first
// waypoint up is a no-op.
func (p *RoutePlanner) MoveUp(idx int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkIndexLocked(idx); err != nil {
		return fmt.Errorf("move up: %w", err)
	}
	if idx == 0 {
		return nil
	}
	p.waypoints[idx-1], p.waypoints[idx] = p.waypoints[idx], p.waypoints[idx-1]
	p.editedLocked()
	return nil
}

// MoveDown swaps the waypoint at idx with its successor. Moving the last
// waypoint down is a no-op.
func (p *RoutePlanner) MoveDown(idx int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkIndexLocked(idx); err != nil {
		return fmt.Errorf("move down: %w", err)
	}
	if idx == len(p.waypoints)-1 {
		return nil
	}
	p.waypoints[idx], p.waypoints[idx+1] = p.waypoints[idx+1], p.waypoints[idx]
	p.editedLocked()
	return nil
}

// Build computes the road route from the start position through every
// waypoint in list order.
func (p *RoutePlanner) Build(ctx context.Context) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.Build")(&err)

	reqCtx, f, rev, points, _, err := p.begin(ctx, 1)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("build route: %w", err)
	}
	defer f.cancel()

	res, callErr := p.routing.Route(reqCtx, points)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.finishLocked(f, rev, callErr); err != nil {
		return domain.RouteResult{}, fmt.Errorf("build route: %w", err)
	}

	p.result = &res
	p.state = domain.RoutePlanned
	return res, nil
}

// Optimize asks the routing service for the best visiting order from the
// start position, without returning to it, and replaces the waypoint list
// with that order.
func (p *RoutePlanner) Optimize(ctx context.Context) (_ OptimizeOutcome, err error) {
	defer obs.Time(ctx, "route.Optimize")(&err)

	trips, ok := p.routing.(ports.TripProvider)
	if !ok {
		return OptimizeOutcome{}, errors.New("optimize route: routing provider does not support trips")
	}

	reqCtx, f, rev, points, sites, err := p.begin(ctx, 2)
	if err != nil {
		return OptimizeOutcome{}, fmt.Errorf("optimize route: %w", err)
	}
	defer f.cancel()

	trip, callErr := trips.Trip(reqCtx, points)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.finishLocked(f, rev, callErr); err != nil {
		return OptimizeOutcome{}, fmt.Errorf("optimize route: %w", err)
	}

	order, dropped := reconcileTrip(trip, sites, p.epsilon)
	if len(dropped) > 0 {
		obs.ReconcileDropped.Add(float64(len(dropped)))
		log.Printf("req_id=%s op=route.Optimize dropped=%d unmatched=%v", obs.RequestID(ctx), len(dropped), dropped)
	}
	if len(order) == 0 {
		return OptimizeOutcome{}, fmt.Errorf("optimize route: no returned waypoint matched a site: %w", domain.ErrNoRoute)
	}

	p.waypoints = order
	p.result = &trip.Route
	p.state = domain.RoutePlanned

	return OptimizeOutcome{Order: slices.Clone(order), Dropped: dropped, Result: trip.Route}, nil
}

// Reset clears the waypoints and result and cancels any in-flight request.
func (p *RoutePlanner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight != nil {
		p.inFlight.cancel()
		p.inFlight = nil
	}
	p.waypoints = nil
	p.result = nil
	p.state = domain.RouteEmpty
	p.revision++
}

func (p *RoutePlanner) Snapshot() RouteSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := RouteSnapshot{
		State:     p.state,
		Waypoints: slices.Clone(p.waypoints),
		InFlight:  p.inFlight != nil,
	}
	if p.start != nil {
		start := *p.start
		snap.Start = &start
	}
	if p.state == domain.RoutePlanned && p.result != nil {
		res := *p.result
		res.Geometry = slices.Clone(p.result.Geometry)
		snap.Result = &res
	}
	return snap
}

// begin validates the planner for a request needing at least minWaypoints
// and marks a request in flight. The returned points start with the start
// position; sites are the waypoint sites in list order.
func (p *RoutePlanner) begin(ctx context.Context, minWaypoints int) (context.Context, *flight, uint64, []domain.Coordinates, []domain.Site, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inFlight != nil {
		return nil, nil, 0, nil, nil, domain.ErrBusy
	}
	if p.start == nil {
		return nil, nil, 0, nil, nil, domain.Invalid("start position is not set")
	}
	if len(p.waypoints) < minWaypoints {
		return nil, nil, 0, nil, nil, domain.Invalid("need at least %d waypoint(s), have %d", minWaypoints, len(p.waypoints))
	}

	points := make([]domain.Coordinates, 0, len(p.waypoints)+1)
	points = append(points, *p.start)
	sites := make([]domain.Site, 0, len(p.waypoints))
	for _, id := range p.waypoints {
		site, ok := p.sites.Get(id)
		if !ok {
			return nil, nil, 0, nil, nil, fmt.Errorf("waypoint site %d: %w", id, domain.ErrNotFound)
		}
		if err := site.Location.Validate(); err != nil {
			return nil, nil, 0, nil, nil, fmt.Errorf("waypoint site %d: %w", id, err)
		}
		points = append(points, site.Location)
		sites = append(sites, site)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel}
	p.inFlight = f
	return reqCtx, f, p.revision, points, sites, nil
}

// finishLocked ends flight f and reports whether its response may be
// applied. A response is discarded when the planner changed since the
// request started.
func (p *RoutePlanner) finishLocked(f *flight, rev uint64, callErr error) error {
	if p.inFlight == f {
		p.inFlight = nil
	}
	if p.revision != rev {
		return domain.ErrStaleResponse
	}
	return callErr
}

func (p *RoutePlanner) checkIndexLocked(idx int) error {
	if idx < 0 || idx >= len(p.waypoints) {
		return domain.Invalid("waypoint index %d out of range [0, %d)", idx, len(p.waypoints))
	}
	return nil
}

// editedLocked records a waypoint list change. A planned route no longer
// matches the list and becomes stale.
func (p *RoutePlanner) editedLocked() {
	p.revision++
	switch {
	case p.state == domain.RoutePlanned || p.state == domain.RouteStale:
		p.state = domain.RouteStale
		p.result = nil
	case len(p.waypoints) == 0:
		p.state = domain.RouteEmpty
	default:
		p.state = domain.RouteBuilding
	}
}
