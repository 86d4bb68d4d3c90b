package handlers

import (
	"sort"
	"treatment-site-service/internal/api/dto"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/services"
)

func toSiteResponse(s domain.Site) dto.SiteResponse {
	return dto.SiteResponse{
		ID:            s.ID,
		Type:          string(s.Type),
		Lat:           s.Location.Lat,
		Lng:           s.Location.Lon,
		District:      s.District,
		Neighborhood:  s.Neighborhood,
		Address:       s.Address,
		Notes:         s.Notes,
		SubType:       s.SubType,
		Image:         s.Image,
		LastTreatedAt: s.LastTreatedAt,
		Treated:       s.Treated,
	}
}

func toSiteViewResponse(v services.SiteView) dto.SiteViewResponse {
	res := dto.SiteViewResponse{
		SiteResponse: toSiteResponse(v.Site),
		Tier:         string(v.Status.Tier),
		Countdown:    v.Status.Countdown,
		Progress:     v.Status.Progress,
		Upcoming:     v.Status.Upcoming,
		Overdue:      v.Status.Overdue,
		Deactivated:  v.Status.Deactivated,
	}
	if v.Status.Remaining.Set {
		rem := v.Status.Remaining.Seconds
		res.RemainingSeconds = &rem
	}
	return res
}

func toDurationBody(d domain.Duration) dto.DurationBody {
	return dto.DurationBody{Days: d.Days, Hours: d.Hours, Minutes: d.Minutes}
}

func toPolicyResponse(p domain.Policy, catalog domain.Catalog) dto.PolicyResponse {
	res := dto.PolicyResponse{
		Durations: make(map[string]dto.DurationBody, len(catalog.Entries)),
		Paused:    make(map[string]bool, len(catalog.Entries)),
		Types:     make([]dto.SiteTypeResponse, 0, len(catalog.Entries)),
	}
	for _, e := range catalog.Entries {
		res.Durations[string(e.Type)] = toDurationBody(p.DurationFor(e.Type))
		res.Paused[string(e.Type)] = p.IsPaused(e.Type)
		res.Types = append(res.Types, dto.SiteTypeResponse{
			Type:            string(e.Type),
			Label:           e.Label,
			SubTypes:        e.SubTypes,
			DefaultDuration: toDurationBody(e.DefaultDuration),
		})
	}
	return res
}

func toFilter(f dto.FilterBody) services.SiteFilter {
	return services.SiteFilter{
		Type:         domain.SiteType(f.Type),
		District:     f.District,
		SubType:      f.SubType,
		Neighborhood: f.Neighborhood,
	}
}

func toFilterBody(f services.SiteFilter) dto.FilterBody {
	return dto.FilterBody{
		Type:         string(f.Type),
		District:     f.District,
		SubType:      f.SubType,
		Neighborhood: f.Neighborhood,
	}
}

func toBulkStateResponse(st services.BulkState) dto.BulkStateResponse {
	res := dto.BulkStateResponse{
		Open:     st.Open,
		Filter:   toFilterBody(st.Filter),
		Selected: st.Selected,
		View:     st.View,
	}
	if res.Selected == nil {
		res.Selected = []int64{}
	}
	if res.View == nil {
		res.View = []int64{}
	}
	return res
}

func toBulkResultResponse(r services.BulkResult) dto.BulkResultResponse {
	res := dto.BulkResultResponse{
		Succeeded: r.Succeeded(),
		Failed:    make(map[int64]string),
	}
	for _, id := range r.Failed() {
		res.Failed[id] = r.Results[id].Error()
	}
	if res.Succeeded == nil {
		res.Succeeded = []int64{}
	}
	return res
}

func toCoordinatesBody(c domain.Coordinates) dto.CoordinatesBody {
	return dto.CoordinatesBody{Lat: c.Lat, Lng: c.Lon}
}

func toRouteResultResponse(r domain.RouteResult) dto.RouteResultResponse {
	geom := make([]dto.CoordinatesBody, 0, len(r.Geometry))
	for _, c := range r.Geometry {
		geom = append(geom, toCoordinatesBody(c))
	}
	return dto.RouteResultResponse{
		Geometry:        geom,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	}
}

func toRouteStateResponse(s services.RouteSnapshot) dto.RouteStateResponse {
	res := dto.RouteStateResponse{
		State:     string(s.State),
		Waypoints: s.Waypoints,
		InFlight:  s.InFlight,
	}
	if res.Waypoints == nil {
		res.Waypoints = []int64{}
	}
	if s.Start != nil {
		start := toCoordinatesBody(*s.Start)
		res.Start = &start
	}
	if s.Result != nil {
		result := toRouteResultResponse(*s.Result)
		res.Result = &result
	}
	return res
}

func toDashboardResponse(d services.Dashboard) dto.DashboardResponse {
	res := dto.DashboardResponse{
		At:               d.At,
		TotalSites:       d.TotalSites,
		TreatedSites:     d.TreatedSites,
		ByType:           make(map[string]int, len(d.ByType)),
		ByTier:           make(map[string]int, len(d.ByTier)),
		Upcoming:         make([]dto.UpcomingResponse, 0, len(d.Upcoming)),
		Overdue:          d.Overdue,
		RecentTreatments: make([]dto.SiteResponse, 0, len(d.RecentTreatments)),
		Monthly:          make([]dto.MonthCountResponse, 0, len(d.Monthly)),
	}
	for t, n := range d.ByType {
		res.ByType[string(t)] = n
	}
	for t, n := range d.ByTier {
		res.ByTier[string(t)] = n
	}
	for _, u := range d.Upcoming {
		res.Upcoming = append(res.Upcoming, dto.UpcomingResponse{
			Site:             toSiteResponse(u.Site),
			RemainingSeconds: u.Remaining,
			Remaining:        u.RemainingText,
		})
	}
	for _, s := range d.RecentTreatments {
		res.RecentTreatments = append(res.RecentTreatments, toSiteResponse(s))
	}
	for _, m := range d.Monthly {
		res.Monthly = append(res.Monthly, dto.MonthCountResponse{Month: m.Month, Count: m.Count})
	}
	return res
}

// sortedTypes returns the keys of m in a stable order.
func sortedTypes[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
