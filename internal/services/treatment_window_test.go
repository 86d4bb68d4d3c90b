package services

import (
	"testing"
	"time"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRemainingAtTreatmentEqualsDuration(t *testing.T) {
	p := domain.DefaultCatalog().DefaultPolicy()
	for _, typ := range domain.SiteTypes {
		rem := RemainingSeconds(p, typ, treatedAt(t0), t0)
		assert.True(t, rem.Set)
		assert.Equal(t, p.DurationFor(typ).Seconds(), rem.Seconds, "type %s", typ)
	}
}

func TestRemainingStrictlyDecreasesWithNow(t *testing.T) {
	p := oneDayPolicy(domain.SiteTypeSewerInlet)
	prev := RemainingSeconds(p, domain.SiteTypeSewerInlet, treatedAt(t0), t0)
	for s := 1; s <= 200000; s += 997 {
		cur := RemainingSeconds(p, domain.SiteTypeSewerInlet, treatedAt(t0), t0.Add(time.Duration(s)*time.Second))
		assert.Less(t, cur.Seconds, prev.Seconds)
		prev = cur
	}
}

func TestRemainingUnsetWithoutTimestamp(t *testing.T) {
	rem := RemainingSeconds(domain.DefaultCatalog().DefaultPolicy(), domain.SiteTypeFlyBreeding, nil, t0)
	assert.False(t, rem.Set)

	untreated := site(1, domain.SiteTypeFlyBreeding, 0, 0)
	untreated.LastTreatedAt = treatedAt(t0)
	assert.False(t, RemainingFor(domain.DefaultCatalog().DefaultPolicy(), untreated, t0).Set)
}

func TestRemainingZeroDurationExpiresImmediately(t *testing.T) {
	p := domain.Policy{Durations: map[domain.SiteType]domain.Duration{domain.SiteTypeWasteContainer: {}}}
	rem := RemainingSeconds(p, domain.SiteTypeWasteContainer, treatedAt(t0), t0)
	assert.Equal(t, int64(0), rem.Seconds)
	assert.Equal(t, domain.TierExpired, RatioTier(rem, 0))
}

func TestRemainingFloorsElapsedSeconds(t *testing.T) {
	p := oneDayPolicy(domain.SiteTypeSewerInlet)

	rem := RemainingSeconds(p, domain.SiteTypeSewerInlet, treatedAt(t0), t0.Add(1500*time.Millisecond))
	assert.Equal(t, int64(86399), rem.Seconds)

	// now slightly before the treatment instant
	rem = RemainingSeconds(p, domain.SiteTypeSewerInlet, treatedAt(t0), t0.Add(-500*time.Millisecond))
	assert.Equal(t, int64(86401), rem.Seconds)
}

func TestRemainingUsesFallbackForUnknownPolicyEntry(t *testing.T) {
	rem := RemainingSeconds(domain.Policy{}, domain.SiteTypeMosquitoBreeding, treatedAt(t0), t0)
	assert.Equal(t, domain.FallbackDuration.Seconds(), rem.Seconds)
}

func TestScenarioOneDayWindowTiers(t *testing.T) {
	p := oneDayPolicy(domain.SiteTypeSewerInlet)
	c := NewClassifier()
	s := site(1, domain.SiteTypeSewerInlet, 41, 29)
	s.LastTreatedAt = treatedAt(t0)
	s.Treated = true

	tests := []struct {
		after     time.Duration
		remaining int64
		tier      domain.Tier
	}{
		{12 * time.Hour, 43200, domain.TierWarning},
		{23*time.Hour + 30*time.Minute, 1800, domain.TierCritical},
		{23 * time.Hour, 3600, domain.TierCritical},
		{25 * time.Hour, -3600, domain.TierExpired},
	}

	for _, tt := range tests {
		st := c.Classify(s, p, t0.Add(tt.after))
		assert.Equal(t, tt.remaining, st.Remaining.Seconds, "after %s", tt.after)
		assert.Equal(t, tt.tier, st.Tier, "after %s", tt.after)
	}
}
