package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"treatment-site-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRepositoryListSites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/resources", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "type": "sewer-inlet", "lat": 41.0, "lng": 29.0, "district": "Besiktas",
			 "last_treated_at": "2026-01-02T10:00:00Z", "treated": true},
			{"id": 2, "type": "fly-breeding", "lat": 40.5, "lng": 28.5, "sub_type": "Dump",
			 "last_treated_at": null, "treated": false}
		]`))
	}))
	defer srv.Close()

	repo, err := NewHTTPRepository(srv.URL)
	require.NoError(t, err)

	sites, err := repo.ListSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)

	at, ok := sites[0].TreatedAt()
	require.True(t, ok)
	assert.True(t, at.Equal(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.Coordinates{Lat: 41.0, Lon: 29.0}, sites[0].Location)
	assert.Equal(t, "Dump", sites[1].SubType)
	assert.Nil(t, sites[1].LastTreatedAt)
}

func TestHTTPRepositoryPatchSendsOnlySetFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/resources/9", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	repo, err := NewHTTPRepository(srv.URL + "/")
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateSite(context.Background(), 9, domain.TreatmentPatch(at)))

	assert.Equal(t, map[string]any{
		"last_treated_at": "2026-03-01T12:00:00Z",
		"treated":         true,
	}, got)
}

func TestHTTPRepositoryCreateSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in createRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "waste-container", in.Type)
		assert.Equal(t, 28.9, in.Lng)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(siteRecord{ID: 42, Type: in.Type, Lat: in.Lat, Lng: in.Lng})
	}))
	defer srv.Close()

	repo, err := NewHTTPRepository(srv.URL)
	require.NoError(t, err)

	site, err := repo.CreateSite(context.Background(), domain.NewSite{
		Type:     domain.SiteTypeWasteContainer,
		Location: domain.Coordinates{Lat: 41.1, Lon: 28.9},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), site.ID)
	assert.False(t, site.Treated)
}

func TestHTTPRepositoryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/resources/404":
			http.Error(w, "no such resource", http.StatusNotFound)
		default:
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	repo, err := NewHTTPRepository(srv.URL)
	require.NoError(t, err)

	err = repo.DeleteSite(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.DeleteSite(context.Background(), 1)
	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
	assert.Equal(t, "database unavailable", he.Body)
}
