package ports

import (
	"context"
	"treatment-site-service/internal/domain"
)

// Port: the system of record for treatment sites.
// Implementations surface non-success responses as errors and never retry.
type SiteRepository interface {
	// Retrieve every stored site.
	ListSites(ctx context.Context) ([]domain.Site, error)
	// Store a new site and return it with its assigned id.
	CreateSite(ctx context.Context, site domain.NewSite) (domain.Site, error)
	// Apply a partial update. Returns domain.ErrNotFound for an unknown id.
	UpdateSite(ctx context.Context, id int64, patch domain.SitePatch) error
	// Remove a site. Returns domain.ErrNotFound for an unknown id.
	DeleteSite(ctx context.Context, id int64) error
}
