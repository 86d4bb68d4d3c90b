package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
	"treatment-site-service/internal/ports"
)

// ConfigStore holds the committed treatment policy. Readers get copies;
// changes go through a PolicyDraft and become visible only when Commit
// succeeds.
type ConfigStore struct {
	store    ports.PolicyStore
	defaults domain.Policy

	// commitMu serializes commits so persistence and swap happen in order
	// without blocking readers during I/O.
	commitMu sync.Mutex

	mu       sync.RWMutex
	current  domain.Policy
	revision uint64
}

func NewConfigStore(store ports.PolicyStore, defaults domain.Policy) *ConfigStore {
	return &ConfigStore{
		store:    store,
		defaults: defaults.Clone(),
		current:  defaults.Clone(),
	}
}

// Load replaces the current policy with the persisted one layered over the
// defaults.
func (s *ConfigStore) Load(ctx context.Context) (err error) {
	defer obs.Time(ctx, "config.Load")(&err)

	stored, err := s.store.LoadPolicy(ctx)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	merged := s.defaults.Merge(stored)
	if err := merged.Validate(); err != nil {
		return fmt.Errorf("load policy: stored policy: %w", err)
	}

	s.mu.Lock()
	s.current = merged
	s.revision++
	s.mu.Unlock()

	log.Printf("policy loaded types=%d paused=%d", len(merged.Durations), countPaused(merged))
	return nil
}

// Snapshot returns a copy of the committed policy.
func (s *ConfigStore) Snapshot() domain.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Draft starts a staged edit of the committed policy.
func (s *ConfigStore) Draft() *PolicyDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &PolicyDraft{policy: s.current.Clone(), base: s.revision}
}

// Commit validates and persists the draft, then makes it the current policy.
// A draft taken before another commit is rejected with domain.ErrStaleDraft.
// When persistence fails the current policy is left unchanged.
func (s *ConfigStore) Commit(ctx context.Context, d *PolicyDraft) (err error) {
	defer obs.Time(ctx, "config.Commit")(&err)

	if d == nil {
		return domain.Invalid("commit policy: draft is nil")
	}
	if err := d.policy.Validate(); err != nil {
		return fmt.Errorf("commit policy: %w", err)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	rev := s.revision
	s.mu.RUnlock()
	if d.base != rev {
		return fmt.Errorf("commit policy: %w", domain.ErrStaleDraft)
	}

	next := d.policy.Clone()
	if err := s.store.SavePolicy(ctx, next); err != nil {
		return fmt.Errorf("commit policy: persist: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.revision++
	s.mu.Unlock()

	return nil
}

// Staged copy of a policy. A draft is not safe for concurrent use.
type PolicyDraft struct {
	policy domain.Policy
	base   uint64
}

func (d *PolicyDraft) SetDuration(t domain.SiteType, dur domain.Duration) error {
	if !t.Valid() {
		return domain.Invalid("unknown site type %q", t)
	}
	if err := dur.Validate(); err != nil {
		return fmt.Errorf("duration for %q: %w", t, err)
	}
	d.policy.Durations[t] = dur
	return nil
}

func (d *PolicyDraft) SetPaused(t domain.SiteType, paused bool) error {
	if !t.Valid() {
		return domain.Invalid("unknown site type %q", t)
	}
	d.policy.Paused[t] = paused
	return nil
}

// Policy returns a copy of the staged policy.
func (d *PolicyDraft) Policy() domain.Policy { return d.policy.Clone() }

func countPaused(p domain.Policy) int {
	n := 0
	for _, v := range p.Paused {
		if v {
			n++
		}
	}
	return n
}
