package dto

type DurationBody struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type SiteTypeResponse struct {
	Type            string       `json:"type"`
	Label           string       `json:"label"`
	SubTypes        []string     `json:"sub_types"`
	DefaultDuration DurationBody `json:"default_duration"`
}

type PolicyResponse struct {
	Durations map[string]DurationBody `json:"durations"`
	Paused    map[string]bool         `json:"paused"`
	Types     []SiteTypeResponse      `json:"types"`
}

// Edits applied to a draft of the current policy and committed together.
type UpdatePolicyRequest struct {
	Durations map[string]DurationBody `json:"durations"`
	Paused    map[string]bool         `json:"paused"`
}
