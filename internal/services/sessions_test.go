package services

import (
	"testing"
	"treatment-site-service/internal/adapters/routing"
	"treatment-site-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	repo, snap := newSnapshot(t,
		site(1, domain.SiteTypeSewerInlet, 41.00, 29.00),
		site(2, domain.SiteTypeSewerInlet, 41.01, 29.01),
	)
	classifier := NewClassifier()
	provider := routing.NewMockProvider()
	reg := NewSessionRegistry(
		func() *RoutePlanner { return NewRoutePlanner(provider, snap, DefaultMatchEpsilon) },
		func() *BulkCoordinator { return NewBulkCoordinator(snap, repo, classifier, 2) },
	)

	a := reg.Create()
	b := reg.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	// sessions do not share planning state
	require.NoError(t, a.Planner.AddWaypoint(1))
	assert.Empty(t, b.Planner.Snapshot().Waypoints)

	a.Bulk.Open(SiteFilter{})
	_, err := a.Bulk.Toggle(2)
	require.NoError(t, err)

	assert.True(t, reg.End(a.ID))
	assert.False(t, reg.End(a.ID))
	_, ok = reg.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())

	assert.Empty(t, a.Planner.Snapshot().Waypoints)
	assert.False(t, a.Bulk.State().Open)

	_, ok = reg.Get(uuid.New())
	assert.False(t, ok)
}
