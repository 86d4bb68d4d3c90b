package services

import (
	"testing"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func tripOf(locs ...domain.Coordinates) domain.Trip {
	wps := []domain.TripWaypoint{{InputIndex: 0, WaypointIndex: 0}}
	for i, loc := range locs {
		wps = append(wps, domain.TripWaypoint{InputIndex: i + 1, WaypointIndex: i + 1, Location: loc})
	}
	return domain.Trip{Waypoints: wps}
}

func TestReconcileTripFollowsWaypointIndex(t *testing.T) {
	sites := []domain.Site{
		site(10, domain.SiteTypeSewerInlet, 41.00, 29.00),
		site(20, domain.SiteTypeSewerInlet, 41.01, 29.01),
	}
	trip := domain.Trip{Waypoints: []domain.TripWaypoint{
		{InputIndex: 1, WaypointIndex: 2, Location: sites[0].Location},
		{InputIndex: 0, WaypointIndex: 0, Location: domain.Coordinates{Lat: 41.00, Lon: 29.00}},
		{InputIndex: 2, WaypointIndex: 1, Location: sites[1].Location},
	}}

	order, dropped := reconcileTrip(trip, sites, DefaultMatchEpsilon)
	assert.Equal(t, []int64{20, 10}, order)
	assert.Empty(t, dropped)
}

func TestReconcileTripCoincidentSitesClaimedOnce(t *testing.T) {
	// two sites at the same point; the earlier list entry is claimed first
	sites := []domain.Site{
		site(7, domain.SiteTypeWasteContainer, 41.00, 29.00),
		site(3, domain.SiteTypeWasteContainer, 41.00, 29.00),
	}
	loc := sites[0].Location

	order, dropped := reconcileTrip(tripOf(loc, loc), sites, DefaultMatchEpsilon)
	assert.Equal(t, []int64{7, 3}, order)
	assert.Empty(t, dropped)

	order, dropped = reconcileTrip(tripOf(loc, loc, loc), sites, DefaultMatchEpsilon)
	assert.Equal(t, []int64{7, 3}, order)
	assert.Equal(t, []domain.Coordinates{loc}, dropped)
}

func TestReconcileTripTolerance(t *testing.T) {
	sites := []domain.Site{site(1, domain.SiteTypeSewerInlet, 41.0, 29.0)}

	tests := map[string]struct {
		loc     domain.Coordinates
		matched bool
	}{
		"exact":          {domain.Coordinates{Lat: 41.0, Lon: 29.0}, true},
		"inside on both": {domain.Coordinates{Lat: 41.000006, Lon: 28.999994}, true},
		"outside on lat": {domain.Coordinates{Lat: 41.00002, Lon: 29.0}, false},
		"outside on lon": {domain.Coordinates{Lat: 41.0, Lon: 28.99998}, false},
		"far away":       {domain.Coordinates{Lat: -33.9, Lon: 151.2}, false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			order, dropped := reconcileTrip(tripOf(tc.loc), sites, DefaultMatchEpsilon)
			if tc.matched {
				assert.Equal(t, []int64{1}, order)
				assert.Empty(t, dropped)
			} else {
				assert.Empty(t, order)
				assert.Equal(t, []domain.Coordinates{tc.loc}, dropped)
			}
		})
	}
}
