package services

import (
	"sort"
	"treatment-site-service/internal/domain"

	"github.com/dhconnelly/rtreego"
)

// DefaultMatchEpsilon is the per-axis tolerance, in degrees, for matching a
// routing service waypoint back to a site.
const DefaultMatchEpsilon = 1e-5

const (
	indexDimensions  = 2
	indexMinChildren = 2
	indexMaxChildren = 8
	// Sites are stored as near-point rectangles; matching uses the query box.
	pointTolerance = 1e-9
)

// indexedSite wraps a waypoint site for R-tree indexing. order is its
// position in the waypoint list and breaks ties between coincident sites.
type indexedSite struct {
	id    int64
	order int
	loc   domain.Coordinates
	rect  *rtreego.Rect
}

func (s *indexedSite) Bounds() *rtreego.Rect { return s.rect }

// siteIndex finds the waypoint site nearest to a returned coordinate.
type siteIndex struct {
	tree *rtreego.Rtree
	eps  float64
}

func newSiteIndex(sites []domain.Site, eps float64) *siteIndex {
	ix := &siteIndex{
		tree: rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren),
		eps:  eps,
	}
	for i, site := range sites {
		p := rtreego.Point{site.Location.Lat, site.Location.Lon}
		ix.tree.Insert(&indexedSite{id: site.ID, order: i, loc: site.Location, rect: p.ToRect(pointTolerance)})
	}
	return ix
}

// match returns the earliest unclaimed site within eps of loc on both axes.
func (ix *siteIndex) match(loc domain.Coordinates, claimed map[int64]bool) (int64, bool) {
	box, err := rtreego.NewRect(
		rtreego.Point{loc.Lat - ix.eps, loc.Lon - ix.eps},
		[]float64{2 * ix.eps, 2 * ix.eps},
	)
	if err != nil {
		return 0, false
	}

	var best *indexedSite
	for _, hit := range ix.tree.SearchIntersect(box) {
		s, ok := hit.(*indexedSite)
		if !ok || claimed[s.id] || !s.loc.Within(loc, ix.eps) {
			continue
		}
		if best == nil || s.order < best.order {
			best = s
		}
	}
	if best == nil {
		return 0, false
	}
	return best.id, true
}

// reconcileTrip maps the optimized trip back to site ids. The first input
// point is the start position and is skipped. Returned waypoints are visited
// in waypoint_index order; each claims at most one site and each site is
// claimed at most once. Waypoints that match nothing are returned in dropped.
func reconcileTrip(trip domain.Trip, sites []domain.Site, eps float64) (order []int64, dropped []domain.Coordinates) {
	stops := make([]domain.TripWaypoint, 0, len(trip.Waypoints))
	for _, wp := range trip.Waypoints {
		if wp.InputIndex == 0 {
			continue
		}
		stops = append(stops, wp)
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].WaypointIndex < stops[j].WaypointIndex })

	ix := newSiteIndex(sites, eps)
	claimed := make(map[int64]bool, len(sites))
	order = make([]int64, 0, len(stops))
	for _, wp := range stops {
		id, ok := ix.match(wp.Location, claimed)
		if !ok {
			dropped = append(dropped, wp.Location)
			continue
		}
		claimed[id] = true
		order = append(order, id)
	}
	return order, dropped
}
