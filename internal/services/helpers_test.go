package services

import (
	"context"
	"sync"
	"testing"
	"time"
	"treatment-site-service/internal/adapters/storage"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/ports"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// manualClock delivers ticks only when the test sends them.
type manualClock struct {
	now   time.Time
	ticks chan time.Time

	mu      sync.Mutex
	tickers []*manualTicker
}

func newManualClock(now time.Time) *manualClock {
	return &manualClock{now: now, ticks: make(chan time.Time)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) NewTicker(time.Duration) ports.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	tk := &manualTicker{c: c.ticks}
	c.tickers = append(c.tickers, tk)
	return tk
}

// Tick blocks until the running loop has received at.
func (c *manualClock) Tick(at time.Time) { c.ticks <- at }

func (c *manualClock) stoppedTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tk := range c.tickers {
		if tk.isStopped() {
			n++
		}
	}
	return n
}

type manualTicker struct {
	c chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func treatedAt(at time.Time) *time.Time { return &at }

func site(id int64, typ domain.SiteType, lat, lon float64) domain.Site {
	return domain.Site{ID: id, Type: typ, Location: domain.Coordinates{Lat: lat, Lon: lon}}
}

// newSnapshot seeds a memory repository and loads it into a snapshot.
func newSnapshot(t *testing.T, sites ...domain.Site) (*storage.MemoryRepository, *SiteSnapshot) {
	t.Helper()
	repo := storage.NewMemoryRepository(sites...)
	snap := NewSiteSnapshot(repo)
	require.NoError(t, snap.Refresh(context.Background()))
	return repo, snap
}

func oneDayPolicy(t domain.SiteType) domain.Policy {
	return domain.Policy{
		Durations: map[domain.SiteType]domain.Duration{t: domain.Days(1)},
		Paused:    map[domain.SiteType]bool{},
	}
}
