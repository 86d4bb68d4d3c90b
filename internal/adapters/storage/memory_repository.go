package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"treatment-site-service/internal/domain"
)

// MemoryRepository is an in-process SiteRepository for local runs and tests.
type MemoryRepository struct {
	mu          sync.Mutex
	nextID      int64
	sites       map[int64]domain.Site
	failUpdates map[int64]error
	updateCalls int
}

// NewMemoryRepository stores seed as-is; sites without an id get one.
func NewMemoryRepository(seed ...domain.Site) *MemoryRepository {
	m := &MemoryRepository{
		sites:       make(map[int64]domain.Site, len(seed)),
		failUpdates: make(map[int64]error),
	}
	for _, s := range seed {
		if s.ID == 0 {
			m.nextID++
			s.ID = m.nextID
		}
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
		m.sites[s.ID] = s
	}
	return m
}

func (m *MemoryRepository) ListSites(ctx context.Context) ([]domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Site, 0, len(m.sites))
	for _, s := range m.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) CreateSite(ctx context.Context, n domain.NewSite) (domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return domain.Site{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	s := domain.Site{
		ID:           m.nextID,
		Type:         n.Type,
		Location:     n.Location,
		District:     n.District,
		Neighborhood: n.Neighborhood,
		Address:      n.Address,
		Notes:        n.Notes,
		SubType:      n.SubType,
		Image:        n.Image,
	}
	m.sites[s.ID] = s
	return s, nil
}

func (m *MemoryRepository) UpdateSite(ctx context.Context, id int64, patch domain.SitePatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	if err := m.failUpdates[id]; err != nil {
		return err
	}
	s, ok := m.sites[id]
	if !ok {
		return fmt.Errorf("site %d: %w", id, domain.ErrNotFound)
	}
	m.sites[id] = s.Apply(patch)
	return nil
}

func (m *MemoryRepository) DeleteSite(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sites[id]; !ok {
		return fmt.Errorf("site %d: %w", id, domain.ErrNotFound)
	}
	delete(m.sites, id)
	return nil
}

// FailUpdates makes every later UpdateSite for id return err.
func (m *MemoryRepository) FailUpdates(id int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUpdates[id] = err
}

func (m *MemoryRepository) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

// Site returns the stored copy of id.
func (m *MemoryRepository) Site(id int64) (domain.Site, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	return s, ok
}
