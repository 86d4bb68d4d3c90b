package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickSourceDeliversClockTicks(t *testing.T) {
	clock := newManualClock(t0)
	ts := NewTickSource(clock, time.Second)

	var (
		mu  sync.Mutex
		got []time.Time
	)
	require.NoError(t, ts.Subscribe(func(now time.Time) {
		mu.Lock()
		got = append(got, now)
		mu.Unlock()
	}))
	require.NoError(t, ts.Start())
	assert.True(t, ts.Running())

	clock.Tick(t0.Add(time.Second))
	clock.Tick(t0.Add(2 * time.Second))
	ts.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Time{t0.Add(time.Second), t0.Add(2 * time.Second)}, got)
	assert.False(t, ts.Running())
	assert.Equal(t, 1, clock.stoppedTickers())
}

func TestTickSourceLifecycleErrors(t *testing.T) {
	ts := NewTickSource(newManualClock(t0), time.Second)

	assert.ErrorIs(t, ts.Start(), ErrTickNoSubscriber)

	require.NoError(t, ts.Subscribe(func(time.Time) {}))
	assert.ErrorIs(t, ts.Subscribe(func(time.Time) {}), ErrTickHasSubscriber)

	require.NoError(t, ts.Start())
	assert.ErrorIs(t, ts.Start(), ErrTickRunning)

	ts.Stop()
	ts.Stop()

	// restart after stop
	require.NoError(t, ts.Start())
	ts.Stop()
}

func TestTickDrivesCountdownBoard(t *testing.T) {
	s := site(1, "sewer-inlet", 41, 29)
	s.LastTreatedAt = treatedAt(t0)
	s.Treated = true
	_, snap := newSnapshot(t, s)

	cs := NewConfigStore(nil, oneDayPolicy("sewer-inlet"))
	board := NewCountdownBoard(snap, cs, NewClassifier())

	updates := make(chan int64, 4)
	board.OnUpdate(func(views []SiteView, at time.Time) {
		updates <- views[0].Status.Remaining.Seconds
	})

	clock := newManualClock(t0)
	ts := NewTickSource(clock, time.Second)
	require.NoError(t, ts.Subscribe(board.Tick))
	require.NoError(t, ts.Start())
	defer ts.Stop()

	clock.Tick(t0.Add(10 * time.Second))
	assert.Equal(t, int64(86390), <-updates)

	clock.Tick(t0.Add(11 * time.Second))
	assert.Equal(t, int64(86389), <-updates)

	views, at := board.Latest()
	require.Len(t, views, 1)
	assert.Equal(t, t0.Add(11*time.Second), at)
}
