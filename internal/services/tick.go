package services

import (
	"errors"
	"sync"
	"time"
	"treatment-site-service/internal/ports"
)

var (
	ErrTickRunning       = errors.New("tick source already running")
	ErrTickNoSubscriber  = errors.New("tick source has no subscriber")
	ErrTickHasSubscriber = errors.New("tick source already has a subscriber")
)

// TickSource drives one subscriber at a fixed interval. It is the only
// owner of "now" for countdown computation.
type TickSource struct {
	clock    ports.Clock
	interval time.Duration

	mu         sync.Mutex
	subscriber func(now time.Time)
	done       chan struct{}
	stopped    chan struct{}
}

func NewTickSource(clock ports.Clock, interval time.Duration) *TickSource {
	return &TickSource{clock: clock, interval: interval}
}

// Subscribe registers the single tick handler. It must be called before Start.
func (t *TickSource) Subscribe(fn func(now time.Time)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.subscriber != nil {
		return ErrTickHasSubscriber
	}
	t.subscriber = fn
	return nil
}

// Start begins ticking in a background goroutine.
func (t *TickSource) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.subscriber == nil {
		return ErrTickNoSubscriber
	}
	if t.done != nil {
		return ErrTickRunning
	}

	t.done = make(chan struct{})
	t.stopped = make(chan struct{})
	go t.run(t.clock.NewTicker(t.interval), t.subscriber, t.done, t.stopped)
	return nil
}

// Stop halts ticking and waits for an in-progress tick to return. Stopping
// an idle source is a no-op.
func (t *TickSource) Stop() {
	t.mu.Lock()
	done, stopped := t.done, t.stopped
	t.done, t.stopped = nil, nil
	t.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-stopped
}

func (t *TickSource) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done != nil
}

func (t *TickSource) run(ticker ports.Ticker, fn func(time.Time), done, stopped chan struct{}) {
	defer close(stopped)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C():
			fn(now)
		}
	}
}
