package services

import (
	"testing"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRatioTierBoundaries(t *testing.T) {
	const d = int64(86400)
	set := func(s int64) Remaining { return Remaining{Seconds: s, Set: true} }

	tests := []struct {
		name string
		rem  Remaining
		want domain.Tier
	}{
		{"unset", Remaining{}, domain.TierUntreated},
		{"negative", set(-1), domain.TierExpired},
		{"zero", set(0), domain.TierExpired},
		{"one second", set(1), domain.TierCritical},
		{"one third", set(d / 3), domain.TierCritical},
		{"just above one third", set(d/3 + 1), domain.TierWarning},
		{"two thirds", set(2 * d / 3), domain.TierWarning},
		{"just above two thirds", set(2*d/3 + 1), domain.TierActive},
		{"full", set(d), domain.TierActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RatioTier(tt.rem, d))
		})
	}
}

func TestRatioTierUsesExactIntegerThirds(t *testing.T) {
	// D = 10: D/3 is 3.33, so 3 is critical and 4 is warning
	assert.Equal(t, domain.TierCritical, RatioTier(Remaining{Seconds: 3, Set: true}, 10))
	assert.Equal(t, domain.TierWarning, RatioTier(Remaining{Seconds: 4, Set: true}, 10))
	assert.Equal(t, domain.TierWarning, RatioTier(Remaining{Seconds: 6, Set: true}, 10))
	assert.Equal(t, domain.TierActive, RatioTier(Remaining{Seconds: 7, Set: true}, 10))
}

func TestClassifyPausedOverridesTier(t *testing.T) {
	p := oneDayPolicy(domain.SiteTypeSewerInlet)
	p.Paused[domain.SiteTypeSewerInlet] = true

	s := site(1, domain.SiteTypeSewerInlet, 41, 29)
	s.LastTreatedAt = treatedAt(t0)
	s.Treated = true

	st := NewClassifier().Classify(s, p, t0.Add(48*3600e9))
	assert.Equal(t, domain.TierPaused, st.Tier)
	assert.Empty(t, st.Countdown)
	assert.Equal(t, float64(100), st.Progress)
	// the upcoming alert ignores pause flags
	assert.True(t, st.Upcoming)
	assert.True(t, st.Overdue)
}

func TestClassifySessionDeactivation(t *testing.T) {
	p := oneDayPolicy(domain.SiteTypeSewerInlet)
	c := NewClassifier()
	s := site(7, domain.SiteTypeSewerInlet, 41, 29)

	c.Deactivate(7)
	st := c.Classify(s, p, t0)
	assert.Equal(t, domain.TierPaused, st.Tier)
	assert.True(t, st.Deactivated)
	assert.Equal(t, []int64{7}, c.Deactivated())

	c.Activate(7)
	st = c.Classify(s, p, t0)
	assert.Equal(t, domain.TierUntreated, st.Tier)
	assert.False(t, st.Deactivated)
}

func TestClassifyCountdownAndProgress(t *testing.T) {
	p := oneDayPolicy(domain.SiteTypeSewerInlet)
	s := site(1, domain.SiteTypeSewerInlet, 41, 29)
	s.LastTreatedAt = treatedAt(t0)
	s.Treated = true

	st := NewClassifier().Classify(s, p, t0.Add(21600e9)) // 6h later
	assert.Equal(t, int64(64800), st.Remaining.Seconds)
	assert.Equal(t, "18h 0s", st.Countdown)
	assert.InDelta(t, 75.0, st.Progress, 1e-9)
	assert.True(t, st.Upcoming)
	assert.False(t, st.Overdue)

	untreated := NewClassifier().Classify(site(2, domain.SiteTypeSewerInlet, 41, 29), p, t0)
	assert.Equal(t, domain.TierUntreated, untreated.Tier)
	assert.Empty(t, untreated.Countdown)
	assert.Zero(t, untreated.Progress)
	assert.False(t, untreated.Upcoming)
}

func TestUpcomingThreshold(t *testing.T) {
	assert.True(t, IsUpcoming(Remaining{Seconds: UpcomingThreshold, Set: true}))
	assert.False(t, IsUpcoming(Remaining{Seconds: UpcomingThreshold + 1, Set: true}))
	assert.True(t, IsUpcoming(Remaining{Seconds: -10, Set: true}))
	assert.False(t, IsUpcoming(Remaining{}))

	assert.True(t, IsOverdue(Remaining{Seconds: -1, Set: true}))
	assert.False(t, IsOverdue(Remaining{Seconds: 0, Set: true}))
}

func TestFormatCountdown(t *testing.T) {
	tests := map[int64]string{
		0:      "0s",
		59:     "59s",
		3600:   "1h 0s",
		93784:  "1d 2h 3m 4s",
		-93784: "-1d 2h 3m 4s",
		86405:  "1d 5s",
		-61:    "-1m 1s",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCountdown(in), "seconds %d", in)
	}
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "1d 2h 3m", FormatCompact(93784))
	assert.Equal(t, "-0d 1h 0m", FormatCompact(-3600))
	assert.Equal(t, "0d 0h 0m", FormatCompact(0))
}
