package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"treatment-site-service/internal/domain"
)

// InitSchema creates the site and settings tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSitesQuery := `
	CREATE TABLE IF NOT EXISTS treatment_sites (
		id BIGSERIAL PRIMARY KEY,
		type TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		district TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		sub_type TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		last_treated_at TIMESTAMPTZ NULL,
		treated BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_treatment_sites_type_district
	ON treatment_sites(type, district);
	`

	statements := []string{
		createSitesQuery,
		createSettingsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ReadSeed parses and validates a JSON array of sites in the storage wire
// format. Every item needs a positive id.
func ReadSeed(jsonPath string) ([]domain.Site, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read seed: read %q: %w", jsonPath, err)
	}

	var data []siteRecord
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read seed: parse json: %w", err)
	}

	sites := make([]domain.Site, 0, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return nil, fmt.Errorf("read seed: invalid id at index %d: %d", i+1, item.ID)
		}

		site := item.toDomain()
		site.Address = strings.TrimSpace(site.Address)
		if !site.Type.Valid() {
			return nil, fmt.Errorf("read seed: item %d at index %d: unknown type %q", item.ID, i+1, item.Type)
		}
		if err := site.Location.Validate(); err != nil {
			return nil, fmt.Errorf("read seed: item %d at index %d: %w", item.ID, i+1, err)
		}
		if site.Treated && site.LastTreatedAt == nil {
			return nil, fmt.Errorf("read seed: item %d at index %d: treated without last_treated_at", item.ID, i+1)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// SeedFromJSON upserts the sites in jsonPath and advances the id sequence
// past the highest seeded id.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	sites, err := ReadSeed(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed sites: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed sites: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO treatment_sites (
		id, type, lat, lng, district, neighborhood, address, notes,
		sub_type, image, last_treated_at, treated
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		type = EXCLUDED.type,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		district = EXCLUDED.district,
		neighborhood = EXCLUDED.neighborhood,
		address = EXCLUDED.address,
		notes = EXCLUDED.notes,
		sub_type = EXCLUDED.sub_type,
		image = EXCLUDED.image,
		last_treated_at = EXCLUDED.last_treated_at,
		treated = EXCLUDED.treated;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed sites: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sites {
		var last sql.NullTime
		if s.LastTreatedAt != nil {
			last = sql.NullTime{Time: *s.LastTreatedAt, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			s.ID, string(s.Type), s.Location.Lat, s.Location.Lon, s.District, s.Neighborhood,
			s.Address, s.Notes, s.SubType, s.Image, last, s.Treated,
		); err != nil {
			return 0, fmt.Errorf("seed sites: insert id=%d: %w", s.ID, err)
		}
	}

	sequenceQuery := `
	SELECT setval(pg_get_serial_sequence('treatment_sites', 'id'), COALESCE(MAX(id), 1))
	FROM treatment_sites;
	`
	if _, err := tx.ExecContext(ctx, sequenceQuery); err != nil {
		return 0, fmt.Errorf("seed sites: advance id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed sites: commit tx: %w", err)
	}

	return len(sites), nil
}
