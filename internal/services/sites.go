package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
	"treatment-site-service/internal/ports"
)

// SiteService performs single-site mutations against the repository and
// refreshes the snapshot after each successful call.
type SiteService struct {
	repo       ports.SiteRepository
	snapshot   *SiteSnapshot
	classifier *Classifier
}

func NewSiteService(repo ports.SiteRepository, snapshot *SiteSnapshot, classifier *Classifier) *SiteService {
	return &SiteService{repo: repo, snapshot: snapshot, classifier: classifier}
}

func (s *SiteService) Create(ctx context.Context, n domain.NewSite) (_ domain.Site, err error) {
	defer obs.Time(ctx, "sites.Create")(&err)

	if err := n.Validate(); err != nil {
		return domain.Site{}, fmt.Errorf("create site: %w", err)
	}

	site, err := s.repo.CreateSite(ctx, n)
	if err != nil {
		return domain.Site{}, fmt.Errorf("create site: %w", err)
	}

	s.refresh(ctx, "create")
	return site, nil
}

// Update edits descriptive fields. Treatment state changes only through
// MarkTreated.
func (s *SiteService) Update(ctx context.Context, id int64, patch domain.SitePatch) (err error) {
	defer obs.Time(ctx, "sites.Update")(&err)

	if patch.TouchesTreatment() {
		return fmt.Errorf("update site %d: %w", id, domain.Invalid("treatment fields can only be set by a treatment"))
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("update site %d: %w", id, err)
	}

	if err := s.repo.UpdateSite(ctx, id, patch); err != nil {
		return fmt.Errorf("update site %d: %w", id, err)
	}

	s.refresh(ctx, "update")
	return nil
}

func (s *SiteService) Delete(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "sites.Delete")(&err)

	if err := s.repo.DeleteSite(ctx, id); err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}

	s.classifier.Activate(id)
	s.refresh(ctx, "delete")
	return nil
}

// MarkTreated records a treatment of one site at now.
func (s *SiteService) MarkTreated(ctx context.Context, id int64, now time.Time) (err error) {
	defer obs.Time(ctx, "sites.MarkTreated")(&err)

	if _, ok := s.snapshot.Get(id); !ok {
		return fmt.Errorf("mark treated: site %d: %w", id, domain.ErrNotFound)
	}

	if err := s.repo.UpdateSite(ctx, id, domain.TreatmentPatch(now)); err != nil {
		return fmt.Errorf("mark treated: site %d: %w", id, err)
	}

	s.refresh(ctx, "treat")
	return nil
}

// SetActive toggles the session-only deactivation of one site.
func (s *SiteService) SetActive(id int64, active bool) error {
	if _, ok := s.snapshot.Get(id); !ok {
		return fmt.Errorf("set active: site %d: %w", id, domain.ErrNotFound)
	}
	if active {
		s.classifier.Activate(id)
	} else {
		s.classifier.Deactivate(id)
	}
	return nil
}

// refresh reloads the snapshot after a successful mutation. A failure is
// logged; the next successful refresh catches up.
func (s *SiteService) refresh(ctx context.Context, op string) {
	if err := s.snapshot.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("req_id=%s op=%s snapshot refresh failed: %v", obs.RequestID(ctx), op, err)
	}
}
