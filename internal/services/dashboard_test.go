package services

import (
	"testing"
	"time"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	const day = 24 * time.Hour
	policy := domain.DefaultCatalog().DefaultPolicy()

	critical := site(1, domain.SiteTypeSewerInlet, 41, 29)
	critical.LastTreatedAt, critical.Treated = treatedAt(t0.Add(-9*day)), true
	expired := site(2, domain.SiteTypeSewerInlet, 41, 29)
	expired.LastTreatedAt, expired.Treated = treatedAt(t0.Add(-12*day)), true
	untreated := site(3, domain.SiteTypeMosquitoBreeding, 41, 29)
	old := site(4, domain.SiteTypeWasteContainer, 41, 29)
	old.LastTreatedAt, old.Treated = treatedAt(t0.Add(-40*day)), true
	fresh := site(5, domain.SiteTypeSewerInlet, 41, 29)
	fresh.LastTreatedAt, fresh.Treated = treatedAt(t0.Add(-time.Hour)), true

	views := Evaluate([]domain.Site{critical, expired, untreated, old, fresh}, policy, NewClassifier(), t0)
	d := BuildDashboard(views, t0)

	assert.Equal(t, 5, d.TotalSites)
	assert.Equal(t, 4, d.TreatedSites)
	assert.Equal(t, 3, d.ByType[domain.SiteTypeSewerInlet])
	assert.Equal(t, 1, d.ByTier[domain.TierCritical])
	assert.Equal(t, 2, d.ByTier[domain.TierExpired])
	assert.Equal(t, 1, d.ByTier[domain.TierUntreated])
	assert.Equal(t, 1, d.ByTier[domain.TierActive])
	assert.Equal(t, 2, d.Overdue)

	require.Len(t, d.Upcoming, 3)
	assert.Equal(t, int64(4), d.Upcoming[0].Site.ID)
	assert.Equal(t, int64(2), d.Upcoming[1].Site.ID)
	assert.Equal(t, "-2d 0h 0m", d.Upcoming[1].RemainingText)
	assert.Equal(t, int64(1), d.Upcoming[2].Site.ID)
	assert.Equal(t, "1d 0h 0m", d.Upcoming[2].RemainingText)

	ids := make([]int64, 0, len(d.RecentTreatments))
	for _, s := range d.RecentTreatments {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{5, 1, 2, 4}, ids)

	assert.Equal(t, []MonthCount{
		{Month: "2025-10"},
		{Month: "2025-11"},
		{Month: "2025-12"},
		{Month: "2026-01", Count: 1},
		{Month: "2026-02", Count: 1},
		{Month: "2026-03", Count: 2},
	}, d.Monthly)
}

func TestBuildDashboardLimitsRecentTreatments(t *testing.T) {
	policy := domain.DefaultCatalog().DefaultPolicy()
	sites := make([]domain.Site, 0, 8)
	for i := int64(1); i <= 8; i++ {
		s := site(i, domain.SiteTypeFlyBreeding, 41, 29)
		s.LastTreatedAt, s.Treated = treatedAt(t0.Add(-time.Duration(i)*time.Hour)), true
		sites = append(sites, s)
	}

	d := BuildDashboard(Evaluate(sites, policy, NewClassifier(), t0), t0)

	require.Len(t, d.RecentTreatments, 5)
	assert.Equal(t, int64(1), d.RecentTreatments[0].ID)
	assert.Equal(t, int64(5), d.RecentTreatments[4].ID)
	assert.Empty(t, d.Upcoming)
}

func TestBuildDashboardIgnoresStampWithoutTreatedFlag(t *testing.T) {
	s := site(1, domain.SiteTypeSewerInlet, 41, 29)
	s.LastTreatedAt = treatedAt(t0.Add(-time.Hour))

	d := BuildDashboard(Evaluate([]domain.Site{s}, domain.DefaultCatalog().DefaultPolicy(), NewClassifier(), t0), t0)
	assert.Equal(t, 0, d.TreatedSites)
	assert.Empty(t, d.RecentTreatments)
	assert.Equal(t, 1, d.ByTier[domain.TierUntreated])
}
