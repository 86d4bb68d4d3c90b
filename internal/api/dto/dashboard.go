package dto

import "time"

type UpcomingResponse struct {
	Site             SiteResponse `json:"site"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	Remaining        string       `json:"remaining"`
}

type MonthCountResponse struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DashboardResponse struct {
	At               time.Time            `json:"at"`
	TotalSites       int                  `json:"total_sites"`
	TreatedSites     int                  `json:"treated_sites"`
	ByType           map[string]int       `json:"by_type"`
	ByTier           map[string]int       `json:"by_tier"`
	Upcoming         []UpcomingResponse   `json:"upcoming"`
	Overdue          int                  `json:"overdue"`
	RecentTreatments []SiteResponse       `json:"recent_treatments"`
	Monthly          []MonthCountResponse `json:"monthly"`
}
