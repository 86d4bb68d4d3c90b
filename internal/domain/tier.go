package domain

// Display tier of a site's treatment window.
type Tier string

const (
	TierUntreated Tier = "untreated"
	TierActive    Tier = "active"
	TierWarning   Tier = "warning"
	TierCritical  Tier = "critical"
	TierExpired   Tier = "expired"
	TierPaused    Tier = "paused"
)
