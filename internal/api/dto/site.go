package dto

import "time"

type SiteResponse struct {
	ID            int64      `json:"id"`
	Type          string     `json:"type"`
	Lat           float64    `json:"lat"`
	Lng           float64    `json:"lng"`
	District      string     `json:"district,omitempty"`
	Neighborhood  string     `json:"neighborhood,omitempty"`
	Address       string     `json:"address,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	SubType       string     `json:"sub_type,omitempty"`
	Image         string     `json:"image,omitempty"`
	LastTreatedAt *time.Time `json:"last_treated_at"`
	Treated       bool       `json:"treated"`
}

// Site with its status at the last tick. Remaining is null for untreated sites.
type SiteViewResponse struct {
	SiteResponse
	Tier             string  `json:"tier"`
	RemainingSeconds *int64  `json:"remaining_seconds"`
	Countdown        string  `json:"countdown,omitempty"`
	Progress         float64 `json:"progress"`
	Upcoming         bool    `json:"upcoming"`
	Overdue          bool    `json:"overdue"`
	Deactivated      bool    `json:"deactivated"`
}

type ListSitesResponse struct {
	At    time.Time          `json:"at"`
	Sites []SiteViewResponse `json:"sites"`
}

type CreateSiteRequest struct {
	Type         string  `json:"type"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	District     string  `json:"district"`
	Neighborhood string  `json:"neighborhood"`
	Address      string  `json:"address"`
	Notes        string  `json:"notes"`
	SubType      string  `json:"sub_type"`
	Image        string  `json:"image"`
}

// Partial edit of descriptive fields; absent fields are left unchanged.
type UpdateSiteRequest struct {
	Type         *string  `json:"type"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	District     *string  `json:"district"`
	Neighborhood *string  `json:"neighborhood"`
	Address      *string  `json:"address"`
	Notes        *string  `json:"notes"`
	SubType      *string  `json:"sub_type"`
	Image        *string  `json:"image"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}
