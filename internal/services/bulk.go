package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
	"treatment-site-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

var ErrBulkClosed = errors.New("bulk panel is not open")

// Outcome of a bulk mutation: one entry per site that was attempted.
type BulkResult struct {
	Results map[int64]error
}

func (r BulkResult) Succeeded() []int64 { return r.collect(true) }
func (r BulkResult) Failed() []int64    { return r.collect(false) }

// OK reports whether every attempted site succeeded.
func (r BulkResult) OK() bool { return len(r.Failed()) == 0 }

func (r BulkResult) collect(ok bool) []int64 {
	out := make([]int64, 0, len(r.Results))
	for id, err := range r.Results {
		if (err == nil) == ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type BulkState struct {
	Open     bool
	Filter   SiteFilter
	Selected []int64
	// Ids of the sites in the current filtered view.
	View []int64
}

// BulkCoordinator manages one selection over a filtered view of the
// snapshot and applies actions to exactly the selected sites.
type BulkCoordinator struct {
	snapshot   *SiteSnapshot
	repo       ports.SiteRepository
	classifier *Classifier
	workers    int

	mu       sync.Mutex
	open     bool
	filter   SiteFilter
	selected map[int64]struct{}
}

func NewBulkCoordinator(snapshot *SiteSnapshot, repo ports.SiteRepository, classifier *Classifier, workers int) *BulkCoordinator {
	if workers < 1 {
		workers = 1
	}
	return &BulkCoordinator{
		snapshot:   snapshot,
		repo:       repo,
		classifier: classifier,
		workers:    workers,
		selected:   make(map[int64]struct{}),
	}
}

// Open shows the panel with filter and an empty selection.
func (b *BulkCoordinator) Open(filter SiteFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
	b.filter = filter
	b.selected = make(map[int64]struct{})
}

// SetFilter replaces the filter and clears the selection.
func (b *BulkCoordinator) SetFilter(filter SiteFilter) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return ErrBulkClosed
	}
	b.filter = filter
	b.selected = make(map[int64]struct{})
	return nil
}

// Close hides the panel and drops the selection.
func (b *BulkCoordinator) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

// Toggle flips the selection of id and reports whether it is now selected.
// Ids outside the filtered view are ignored.
func (b *BulkCoordinator) Toggle(id int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return false, ErrBulkClosed
	}

	site, ok := b.snapshot.Get(id)
	if !ok || !b.filter.Matches(site) {
		return false, nil
	}

	if _, sel := b.selected[id]; sel {
		delete(b.selected, id)
		return false, nil
	}
	b.selected[id] = struct{}{}
	return true, nil
}

// SelectAll replaces the selection with the filtered view and returns the count.
func (b *BulkCoordinator) SelectAll() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return 0, ErrBulkClosed
	}
	view := b.snapshot.Filter(b.filter)
	b.selected = make(map[int64]struct{}, len(view))
	for _, site := range view {
		b.selected[site.ID] = struct{}{}
	}
	return len(b.selected), nil
}

func (b *BulkCoordinator) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = make(map[int64]struct{})
}

func (b *BulkCoordinator) State() BulkState {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := BulkState{Open: b.open, Filter: b.filter, Selected: b.selectionLocked()}
	if b.open {
		for _, site := range b.snapshot.Filter(b.filter) {
			st.View = append(st.View, site.ID)
		}
	}
	return st
}

// ApplyMarkTreated records a treatment at now for every selected site.
// Calls are independent and run with bounded concurrency; successes are
// never rolled back. The selection is taken when the call starts; afterwards
// the panel closes and the snapshot is refreshed.
func (b *BulkCoordinator) ApplyMarkTreated(ctx context.Context, now time.Time) (_ BulkResult, err error) {
	defer obs.Time(ctx, "bulk.MarkTreated")(&err)

	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return BulkResult{}, ErrBulkClosed
	}
	ids := b.selectionLocked()
	b.mu.Unlock()

	patch := domain.TreatmentPatch(now)
	result := BulkResult{Results: make(map[int64]error, len(ids))}
	var resultMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(b.workers)
	for _, id := range ids {
		g.Go(func() error {
			err := b.repo.UpdateSite(ctx, id, patch)
			if err != nil {
				err = fmt.Errorf("mark treated: site %d: %w", id, err)
			}

			resultMu.Lock()
			result.Results[id] = err
			resultMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	failed := result.Failed()
	obs.BulkResults.WithLabelValues("mark_treated", "ok").Add(float64(len(ids) - len(failed)))
	obs.BulkResults.WithLabelValues("mark_treated", "error").Add(float64(len(failed)))
	if len(failed) > 0 {
		log.Printf("req_id=%s op=bulk.MarkTreated selected=%d failed=%v", obs.RequestID(ctx), len(ids), failed)
	}

	b.mu.Lock()
	b.closeLocked()
	b.mu.Unlock()

	if len(ids) > 0 {
		if err := b.snapshot.Refresh(ctx); err != nil {
			log.Printf("req_id=%s op=bulk.MarkTreated snapshot refresh failed: %v", obs.RequestID(ctx), err)
		}
	}
	return result, nil
}

// ApplyDeactivate deactivates every selected site for this process only.
// Nothing is written to storage.
func (b *BulkCoordinator) ApplyDeactivate() ([]int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return nil, ErrBulkClosed
	}

	ids := b.selectionLocked()
	b.classifier.Deactivate(ids...)
	obs.BulkResults.WithLabelValues("deactivate", "ok").Add(float64(len(ids)))

	b.closeLocked()
	return ids, nil
}

// selectionLocked prunes selected ids that left the filtered view after a
// snapshot refresh and returns the rest in ascending order.
func (b *BulkCoordinator) selectionLocked() []int64 {
	inView := make(map[int64]struct{}, len(b.selected))
	for _, site := range b.snapshot.Filter(b.filter) {
		inView[site.ID] = struct{}{}
	}

	out := make([]int64, 0, len(b.selected))
	for id := range b.selected {
		if _, ok := inView[id]; !ok {
			delete(b.selected, id)
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *BulkCoordinator) closeLocked() {
	b.open = false
	b.selected = make(map[int64]struct{})
}
