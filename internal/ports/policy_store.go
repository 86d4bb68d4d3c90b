package ports

import (
	"context"
	"treatment-site-service/internal/domain"
)

// Port: key-value persistence for the treatment policy.
type PolicyStore interface {
	// Return the persisted policy. Types with no stored entry are absent
	// from the returned maps; an empty store yields an empty policy.
	LoadPolicy(ctx context.Context) (domain.Policy, error)
	// Persist the full policy, replacing what was stored.
	SavePolicy(ctx context.Context, policy domain.Policy) error
}
