package handlers

import (
	"testing"
	"time"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownEvent(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	views := []services.SiteView{
		{
			Site: domain.Site{ID: 1},
			Status: services.Status{
				Tier:      domain.TierCritical,
				Remaining: services.Remaining{Seconds: 90061, Set: true},
				Countdown: "1d 1h 1m 1s",
			},
		},
		{Site: domain.Site{ID: 2}, Status: services.Status{Tier: domain.TierUntreated}},
	}

	ev := countdownEvent(views, at)

	assert.True(t, ev.At.Equal(at))
	require.Len(t, ev.Sites, 2)
	assert.Equal(t, "critical", ev.Sites[0].Tier)
	require.NotNil(t, ev.Sites[0].RemainingSeconds)
	assert.Equal(t, int64(90061), *ev.Sites[0].RemainingSeconds)
	assert.Equal(t, "1d 1h 1m 1s", ev.Sites[0].Countdown)
	assert.Nil(t, ev.Sites[1].RemainingSeconds)
	assert.Empty(t, ev.Sites[1].Countdown)
}
