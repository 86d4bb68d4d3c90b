package services

import (
	"sync"
	"time"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
)

// A site together with its status at the last tick.
type SiteView struct {
	Site   domain.Site
	Status Status
}

// CountdownBoard recomputes every site's status on each tick and keeps the
// latest result for readers.
type CountdownBoard struct {
	snapshot   *SiteSnapshot
	config     *ConfigStore
	classifier *Classifier

	mu       sync.RWMutex
	views    []SiteView
	at       time.Time
	onUpdate func(views []SiteView, at time.Time)
}

func NewCountdownBoard(snapshot *SiteSnapshot, config *ConfigStore, classifier *Classifier) *CountdownBoard {
	return &CountdownBoard{snapshot: snapshot, config: config, classifier: classifier}
}

// OnUpdate registers a callback invoked after every tick with the new views.
func (b *CountdownBoard) OnUpdate(fn func(views []SiteView, at time.Time)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onUpdate = fn
}

// Tick recomputes all views at now. It is the TickSource subscriber.
func (b *CountdownBoard) Tick(now time.Time) {
	start := time.Now()

	views := Evaluate(b.snapshot.All(), b.config.Snapshot(), b.classifier, now)

	counts := make(map[domain.Tier]int, 6)
	for _, v := range views {
		counts[v.Status.Tier]++
	}

	b.mu.Lock()
	b.views = views
	b.at = now
	fn := b.onUpdate
	b.mu.Unlock()

	for _, tier := range []domain.Tier{
		domain.TierUntreated, domain.TierActive, domain.TierWarning,
		domain.TierCritical, domain.TierExpired, domain.TierPaused,
	} {
		obs.SitesByTier.WithLabelValues(string(tier)).Set(float64(counts[tier]))
	}
	obs.TickDuration.Observe(time.Since(start).Seconds())

	if fn != nil {
		fn(views, now)
	}
}

// Latest returns the views computed at the last tick and its instant.
func (b *CountdownBoard) Latest() ([]SiteView, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]SiteView, len(b.views))
	copy(out, b.views)
	return out, b.at
}

// Views returns the last tick's views that pass both filters.
func (b *CountdownBoard) Views(f SiteFilter, w WindowFilter) ([]SiteView, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]SiteView, 0, len(b.views))
	for _, v := range b.views {
		if f.Matches(v.Site) && w.Matches(v.Status.Remaining) {
			out = append(out, v)
		}
	}
	return out, b.at
}

// Evaluate classifies every site under policy at now.
func Evaluate(sites []domain.Site, policy domain.Policy, classifier *Classifier, now time.Time) []SiteView {
	views := make([]SiteView, len(sites))
	for i, site := range sites {
		views[i] = SiteView{Site: site, Status: classifier.Classify(site, policy, now)}
	}
	return views
}
