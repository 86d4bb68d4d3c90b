package services

import (
	"context"
	"errors"
	"testing"
	"treatment-site-service/internal/adapters/storage"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteServiceFixture(t *testing.T) (*SiteService, *SiteSnapshot, *Classifier, *storage.MemoryRepository) {
	t.Helper()
	repo, snap := newSnapshot(t,
		site(1, domain.SiteTypeSewerInlet, 41.00, 29.00),
		site(2, domain.SiteTypeWasteContainer, 41.01, 29.01),
	)
	classifier := NewClassifier()
	return NewSiteService(repo, snap, classifier), snap, classifier, repo
}

func TestSiteServiceCreateRefreshesSnapshot(t *testing.T) {
	svc, snap, _, _ := siteServiceFixture(t)

	created, err := svc.Create(context.Background(), domain.NewSite{
		Type:     domain.SiteTypeFlyBreeding,
		Location: domain.Coordinates{Lat: 41.05, Lon: 29.05},
		SubType:  "Dump",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	got, ok := snap.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Dump", got.SubType)

	_, err = svc.Create(context.Background(), domain.NewSite{Type: "beehive"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, snap.All(), 3)
}

func TestSiteServiceUpdate(t *testing.T) {
	svc, snap, _, _ := siteServiceFixture(t)
	ctx := context.Background()

	district := "Kadikoy"
	require.NoError(t, svc.Update(ctx, 1, domain.SitePatch{District: &district}))
	got, _ := snap.Get(1)
	assert.Equal(t, "Kadikoy", got.District)

	err := svc.Update(ctx, 1, domain.TreatmentPatch(t0))
	assert.ErrorIs(t, err, domain.ErrValidation)
	got, _ = snap.Get(1)
	assert.False(t, got.Treated)

	assert.ErrorIs(t, svc.Update(ctx, 1, domain.SitePatch{}), domain.ErrValidation)
	assert.ErrorIs(t, svc.Update(ctx, 99, domain.SitePatch{District: &district}), domain.ErrNotFound)
}

func TestSiteServiceMarkTreated(t *testing.T) {
	svc, snap, _, repo := siteServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkTreated(ctx, 2, t0))
	got, _ := snap.Get(2)
	at, ok := got.TreatedAt()
	require.True(t, ok)
	assert.True(t, at.Equal(t0))

	assert.ErrorIs(t, svc.MarkTreated(ctx, 99, t0), domain.ErrNotFound)
	assert.Equal(t, 1, repo.UpdateCalls())

	repo.FailUpdates(1, errors.New("disk full"))
	assert.Error(t, svc.MarkTreated(ctx, 1, t0))
	got, _ = snap.Get(1)
	assert.False(t, got.Treated)
}

func TestSiteServiceDeactivation(t *testing.T) {
	svc, _, classifier, _ := siteServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetActive(1, false))
	assert.True(t, classifier.IsDeactivated(1))
	require.NoError(t, svc.SetActive(1, true))
	assert.False(t, classifier.IsDeactivated(1))
	assert.ErrorIs(t, svc.SetActive(99, false), domain.ErrNotFound)

	require.NoError(t, svc.SetActive(2, false))
	require.NoError(t, svc.Delete(ctx, 2))
	assert.False(t, classifier.IsDeactivated(2))
	assert.ErrorIs(t, svc.Delete(ctx, 2), domain.ErrNotFound)
}
