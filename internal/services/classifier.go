package services

import (
	"sort"
	"sync"
	"time"
	"treatment-site-service/internal/domain"
)

// UpcomingThreshold is the absolute remaining-time cutoff for the upcoming
// alert list, independent of the ratio tiers.
const UpcomingThreshold int64 = 3 * 24 * 60 * 60

// Display state of one site at one instant.
type Status struct {
	Tier      domain.Tier
	Remaining Remaining
	// Empty when the site is untreated or paused.
	Countdown string
	// Share of the window still left, 0 to 100.
	Progress    float64
	Upcoming    bool
	Overdue     bool
	Deactivated bool
}

// Classifier maps remaining time to display tiers and owns the
// session-only deactivation set. Deactivation is kept in memory and is lost
// on restart; it is separate from the persisted type-wide pause flag.
type Classifier struct {
	mu          sync.RWMutex
	deactivated map[int64]struct{}
}

func NewClassifier() *Classifier {
	return &Classifier{deactivated: make(map[int64]struct{})}
}

func (c *Classifier) Deactivate(ids ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.deactivated[id] = struct{}{}
	}
}

func (c *Classifier) Activate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deactivated, id)
}

func (c *Classifier) IsDeactivated(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.deactivated[id]
	return ok
}

// Deactivated returns the deactivated ids in ascending order.
func (c *Classifier) Deactivated() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int64, 0, len(c.deactivated))
	for id := range c.deactivated {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Classify computes the full status of site under policy at now.
func (c *Classifier) Classify(site domain.Site, policy domain.Policy, now time.Time) Status {
	rem := RemainingFor(policy, site, now)
	duration := policy.DurationFor(site.Type).Seconds()
	deactivated := c.IsDeactivated(site.ID)

	st := Status{
		Remaining:   rem,
		Upcoming:    IsUpcoming(rem),
		Overdue:     IsOverdue(rem),
		Deactivated: deactivated,
	}

	if deactivated || policy.IsPaused(site.Type) {
		st.Tier = domain.TierPaused
		st.Progress = 100
		return st
	}

	st.Tier = RatioTier(rem, duration)
	if rem.Set {
		st.Countdown = FormatCountdown(rem.Seconds)
		st.Progress = ProgressPercent(rem.Seconds, duration)
	}
	return st
}

// RatioTier places remaining time into a tier relative to the full window of
// durationSeconds. Boundaries are compared on integers: a site is Critical
// while 3*remaining <= duration and Warning while 3*remaining <= 2*duration.
func RatioTier(rem Remaining, durationSeconds int64) domain.Tier {
	if !rem.Set {
		return domain.TierUntreated
	}

	r := rem.Seconds
	switch {
	case r <= 0:
		return domain.TierExpired
	case 3*r <= durationSeconds:
		return domain.TierCritical
	case 3*r <= 2*durationSeconds:
		return domain.TierWarning
	default:
		return domain.TierActive
	}
}

// IsUpcoming reports a treated site within UpcomingThreshold of expiry,
// including sites already past it. Pause flags do not apply.
func IsUpcoming(rem Remaining) bool {
	return rem.Set && rem.Seconds <= UpcomingThreshold
}

func IsOverdue(rem Remaining) bool {
	return rem.Set && rem.Seconds < 0
}

func ProgressPercent(remaining, durationSeconds int64) float64 {
	if remaining <= 0 || durationSeconds <= 0 {
		return 0
	}
	p := float64(remaining) / float64(durationSeconds) * 100
	if p > 100 {
		return 100
	}
	return p
}
