package services

import (
	"time"
	"treatment-site-service/internal/domain"
)

// Signed seconds left in a treatment window. Set is false for a site that
// has never been treated.
type Remaining struct {
	Seconds int64
	Set     bool
}

// RemainingSeconds computes the time left in the treatment window of type t
// for a treatment at lastTreatedAt, as seen at now.
//
// The result is durationSeconds minus the whole seconds elapsed since the
// treatment (floored), so it may be negative once the window has closed.
func RemainingSeconds(policy domain.Policy, t domain.SiteType, lastTreatedAt *time.Time, now time.Time) Remaining {
	if lastTreatedAt == nil {
		return Remaining{}
	}
	duration := policy.DurationFor(t).Seconds()
	return Remaining{Seconds: duration - elapsedSeconds(*lastTreatedAt, now), Set: true}
}

// RemainingFor applies RemainingSeconds to a site, treating a site without
// the treated flag as never treated.
func RemainingFor(policy domain.Policy, site domain.Site, now time.Time) Remaining {
	at, ok := site.TreatedAt()
	if !ok {
		return Remaining{}
	}
	return RemainingSeconds(policy, site.Type, &at, now)
}

// elapsedSeconds floors toward negative infinity so clock skew does not
// round a future timestamp up to zero.
func elapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	s := int64(d / time.Second)
	if d < 0 && d%time.Second != 0 {
		s--
	}
	return s
}
