package routing

import (
	"context"
	"sync"
	"treatment-site-service/internal/domain"
)

// MockProvider is an in-memory TripProvider for tests and offline runs.
// Each leg between consecutive points costs MetersPerLeg and SecondsPerLeg.
type MockProvider struct {
	MetersPerLeg  int
	SecondsPerLeg int

	// TripOrder lists input indexes (1-based, the start is 0) in the visiting
	// order Trip should return. Nil keeps input order.
	TripOrder []int
	// Moved overrides the location returned for an input index.
	Moved map[int]domain.Coordinates
	// Err fails every call when set.
	Err error
	// Gate, when set, holds each call until it is closed or ctx is done.
	Gate chan struct{}
	// Started receives one value per call, if there is room.
	Started chan struct{}

	mu         sync.Mutex
	routeCalls int
	tripCalls  int
	lastPoints []domain.Coordinates
}

func NewMockProvider() *MockProvider {
	return &MockProvider{MetersPerLeg: 1000, SecondsPerLeg: 120}
}

func (p *MockProvider) Route(ctx context.Context, points []domain.Coordinates) (domain.RouteResult, error) {
	p.record(points, false)
	if err := p.wait(ctx); err != nil {
		return domain.RouteResult{}, err
	}
	if p.Err != nil {
		return domain.RouteResult{}, p.Err
	}
	return p.resultFor(points), nil
}

func (p *MockProvider) Trip(ctx context.Context, points []domain.Coordinates) (domain.Trip, error) {
	p.record(points, true)
	if err := p.wait(ctx); err != nil {
		return domain.Trip{}, err
	}
	if p.Err != nil {
		return domain.Trip{}, p.Err
	}

	order := p.TripOrder
	if order == nil {
		order = make([]int, 0, len(points)-1)
		for i := 1; i < len(points); i++ {
			order = append(order, i)
		}
	}

	waypoints := make([]domain.TripWaypoint, len(points))
	waypoints[0] = domain.TripWaypoint{InputIndex: 0, WaypointIndex: 0, Location: points[0]}
	visited := []domain.Coordinates{points[0]}
	for pos, in := range order {
		loc := points[in]
		if moved, ok := p.Moved[in]; ok {
			loc = moved
		}
		waypoints[in] = domain.TripWaypoint{InputIndex: in, WaypointIndex: pos + 1, Location: loc}
		visited = append(visited, loc)
	}

	return domain.Trip{Route: p.resultFor(visited), Waypoints: waypoints}, nil
}

func (p *MockProvider) RouteCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.routeCalls
}

func (p *MockProvider) TripCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tripCalls
}

func (p *MockProvider) LastPoints() []domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Coordinates, len(p.lastPoints))
	copy(out, p.lastPoints)
	return out
}

func (p *MockProvider) record(points []domain.Coordinates, trip bool) {
	p.mu.Lock()
	if trip {
		p.tripCalls++
	} else {
		p.routeCalls++
	}
	p.lastPoints = append([]domain.Coordinates(nil), points...)
	p.mu.Unlock()

	if p.Started != nil {
		select {
		case p.Started <- struct{}{}:
		default:
		}
	}
}

func (p *MockProvider) wait(ctx context.Context) error {
	if p.Gate == nil {
		return nil
	}
	select {
	case <-p.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *MockProvider) resultFor(points []domain.Coordinates) domain.RouteResult {
	legs := len(points) - 1
	if legs < 0 {
		legs = 0
	}
	return domain.RouteResult{
		Geometry:        append([]domain.Coordinates(nil), points...),
		DistanceMeters:  legs * p.MetersPerLeg,
		DurationSeconds: legs * p.SecondsPerLeg,
	}
}
