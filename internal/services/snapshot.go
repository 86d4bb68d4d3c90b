package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
	"treatment-site-service/internal/ports"
)

// SiteSnapshot is the in-memory copy of every stored site. It is replaced
// wholesale on Refresh; readers see either the old or the new list.
type SiteSnapshot struct {
	repo ports.SiteRepository

	mu          sync.RWMutex
	sites       []domain.Site
	byID        map[int64]int
	refreshedAt time.Time
}

func NewSiteSnapshot(repo ports.SiteRepository) *SiteSnapshot {
	return &SiteSnapshot{repo: repo, byID: map[int64]int{}}
}

// Refresh reloads every site from the repository.
func (s *SiteSnapshot) Refresh(ctx context.Context) (err error) {
	defer obs.Time(ctx, "sites.Refresh")(&err)

	sites, err := s.repo.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("refresh sites: %w", err)
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	byID := make(map[int64]int, len(sites))
	for i, site := range sites {
		byID[site.ID] = i
	}

	s.mu.Lock()
	s.sites = sites
	s.byID = byID
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	return nil
}

// All returns a copy of every site ordered by id.
func (s *SiteSnapshot) All() []domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Site, len(s.sites))
	copy(out, s.sites)
	return out
}

func (s *SiteSnapshot) Get(id int64) (domain.Site, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Site{}, false
	}
	return s.sites[i], true
}

// Filter returns the sites matching f ordered by id.
func (s *SiteSnapshot) Filter(f SiteFilter) []domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Site, 0, len(s.sites))
	for _, site := range s.sites {
		if f.Matches(site) {
			out = append(out, site)
		}
	}
	return out
}

func (s *SiteSnapshot) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
