package services

import (
	"sort"
	"time"
	"treatment-site-service/internal/domain"
)

const (
	recentTreatmentsLimit = 5
	monthlyHistory        = 6
)

type UpcomingItem struct {
	Site          domain.Site
	Remaining     int64
	RemainingText string
}

type MonthCount struct {
	Month string
	Count int
}

// Summary of all sites at one instant.
type Dashboard struct {
	At               time.Time
	TotalSites       int
	TreatedSites     int
	ByType           map[domain.SiteType]int
	ByTier           map[domain.Tier]int
	Upcoming         []UpcomingItem
	Overdue          int
	RecentTreatments []domain.Site
	Monthly          []MonthCount
}

// BuildDashboard summarizes views computed at now.
// Upcoming is sorted by remaining time, soonest (or most overdue) first.
func BuildDashboard(views []SiteView, now time.Time) Dashboard {
	d := Dashboard{
		At:         now,
		TotalSites: len(views),
		ByType:     make(map[domain.SiteType]int),
		ByTier:     make(map[domain.Tier]int),
	}

	treated := make([]domain.Site, 0, len(views))
	for _, v := range views {
		d.ByType[v.Site.Type]++
		d.ByTier[v.Status.Tier]++

		if _, ok := v.Site.TreatedAt(); ok {
			d.TreatedSites++
			treated = append(treated, v.Site)
		}
		if v.Status.Upcoming {
			d.Upcoming = append(d.Upcoming, UpcomingItem{
				Site:          v.Site,
				Remaining:     v.Status.Remaining.Seconds,
				RemainingText: FormatCompact(v.Status.Remaining.Seconds),
			})
		}
		if v.Status.Overdue {
			d.Overdue++
		}
	}

	sort.SliceStable(d.Upcoming, func(i, j int) bool {
		return d.Upcoming[i].Remaining < d.Upcoming[j].Remaining
	})

	sort.SliceStable(treated, func(i, j int) bool {
		return treated[i].LastTreatedAt.After(*treated[j].LastTreatedAt)
	})
	if len(treated) > recentTreatmentsLimit {
		d.RecentTreatments = treated[:recentTreatmentsLimit]
	} else {
		d.RecentTreatments = treated
	}

	d.Monthly = monthlyCounts(treated, now)
	return d
}

// monthlyCounts buckets treatments into the last monthlyHistory calendar
// months of now's location, oldest first.
func monthlyCounts(treated []domain.Site, now time.Time) []MonthCount {
	loc := now.Location()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	out := make([]MonthCount, monthlyHistory)
	starts := make([]time.Time, monthlyHistory+1)
	for i := 0; i < monthlyHistory; i++ {
		starts[i] = current.AddDate(0, i-monthlyHistory+1, 0)
		out[i].Month = starts[i].Format("2006-01")
	}
	starts[monthlyHistory] = current.AddDate(0, 1, 0)

	for _, s := range treated {
		at := s.LastTreatedAt.In(loc)
		for i := 0; i < monthlyHistory; i++ {
			if !at.Before(starts[i]) && at.Before(starts[i+1]) {
				out[i].Count++
				break
			}
		}
	}
	return out
}
