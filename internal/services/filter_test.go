package services

import (
	"testing"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteFilterMatches(t *testing.T) {
	s := domain.Site{Type: domain.SiteTypeMosquitoBreeding, District: "Kadikoy", SubType: "Canal", Neighborhood: "Moda"}

	assert.True(t, SiteFilter{}.Matches(s))
	assert.True(t, SiteFilter{Type: domain.SiteTypeMosquitoBreeding, District: "Kadikoy"}.Matches(s))
	assert.True(t, SiteFilter{SubType: "Canal", Neighborhood: "Moda"}.Matches(s))
	assert.False(t, SiteFilter{District: "Besiktas"}.Matches(s))
	assert.False(t, SiteFilter{Type: domain.SiteTypeFlyBreeding, District: "Kadikoy"}.Matches(s))
}

func TestParseWindowFilter(t *testing.T) {
	for _, raw := range []string{"", "expired", "1", "7"} {
		w, err := ParseWindowFilter(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, w.String())
	}
	for _, raw := range []string{"0", "8", "soon", "-1"} {
		_, err := ParseWindowFilter(raw)
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}
}

func TestWindowFilterMatches(t *testing.T) {
	set := func(s int64) Remaining { return Remaining{Seconds: s, Set: true} }
	expired, _ := ParseWindowFilter("expired")
	two, _ := ParseWindowFilter("2")

	assert.True(t, WindowFilter{}.Matches(Remaining{}))

	assert.True(t, expired.Matches(set(-1)))
	assert.False(t, expired.Matches(set(0)))
	assert.False(t, expired.Matches(Remaining{}))

	assert.True(t, two.Matches(set(2*86400+86399)))
	assert.False(t, two.Matches(set(3*86400)))
	assert.True(t, two.Matches(set(-5)))
	assert.False(t, two.Matches(Remaining{}))
}
