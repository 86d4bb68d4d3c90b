package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
)

// Postgres-backed implementation of the SiteRepository port.
type PostgresRepository struct{ DB *sql.DB }

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const siteColumns = `id, type, lat, lng, district, neighborhood, address, notes, sub_type, image, last_treated_at, treated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (domain.Site, error) {
	var (
		s    domain.Site
		typ  string
		last sql.NullTime
	)
	err := row.Scan(
		&s.ID, &typ, &s.Location.Lat, &s.Location.Lon, &s.District, &s.Neighborhood,
		&s.Address, &s.Notes, &s.SubType, &s.Image, &last, &s.Treated,
	)
	if err != nil {
		return domain.Site{}, err
	}
	s.Type = domain.SiteType(typ)
	if last.Valid {
		t := last.Time.UTC()
		s.LastTreatedAt = &t
	}
	return s, nil
}

// Return all sites stored in the database.
func (p *PostgresRepository) ListSites(ctx context.Context) (_ []domain.Site, err error) {
	defer obs.Time(ctx, "postgres.ListSites")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres site repository: DB is nil")
	}

	rows, err := p.DB.QueryContext(ctx, `SELECT `+siteColumns+` FROM treatment_sites ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list sites: query treatment_sites table: %w", err)
	}
	defer rows.Close()

	sites := make([]domain.Site, 0, 64)
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("list sites: scan row: %w", err)
		}
		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sites: row iteration: %w", err)
	}

	return sites, nil
}

func (p *PostgresRepository) CreateSite(ctx context.Context, n domain.NewSite) (_ domain.Site, err error) {
	defer obs.Time(ctx, "postgres.CreateSite")(&err)

	query := `
	INSERT INTO treatment_sites (type, lat, lng, district, neighborhood, address, notes, sub_type, image)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + siteColumns + `;
	`
	row := p.DB.QueryRowContext(ctx, query,
		string(n.Type), n.Location.Lat, n.Location.Lon, n.District, n.Neighborhood,
		n.Address, n.Notes, n.SubType, n.Image,
	)

	s, err := scanSite(row)
	if err != nil {
		return domain.Site{}, fmt.Errorf("create site: insert: %w", err)
	}
	return s, nil
}

func (p *PostgresRepository) UpdateSite(ctx context.Context, id int64, patch domain.SitePatch) (err error) {
	defer obs.Time(ctx, "postgres.UpdateSite")(&err)

	sets, args := patchAssignments(patch)
	if len(sets) == 0 {
		return fmt.Errorf("update site %d: %w", id, domain.Invalid("patch has no fields"))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE treatment_sites SET %s WHERE id = $%d;", strings.Join(sets, ", "), len(args))

	res, err := p.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update site %d: %w", id, err)
	}
	return requireAffected(res, id, "update site")
}

func (p *PostgresRepository) DeleteSite(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "postgres.DeleteSite")(&err)

	res, err := p.DB.ExecContext(ctx, `DELETE FROM treatment_sites WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}
	return requireAffected(res, id, "delete site")
}

// patchAssignments renders the set fields of patch as numbered
// "column = $n" assignments.
func patchAssignments(patch domain.SitePatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Type != nil {
		add("type", string(*patch.Type))
	}
	if patch.Lat != nil {
		add("lat", *patch.Lat)
	}
	if patch.Lon != nil {
		add("lng", *patch.Lon)
	}
	if patch.District != nil {
		add("district", *patch.District)
	}
	if patch.Neighborhood != nil {
		add("neighborhood", *patch.Neighborhood)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.SubType != nil {
		add("sub_type", *patch.SubType)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if patch.LastTreatedAt != nil {
		add("last_treated_at", patch.LastTreatedAt.UTC())
	}
	if patch.Treated != nil {
		add("treated", *patch.Treated)
	}
	return sets, args
}

func requireAffected(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, domain.ErrNotFound)
	}
	return nil
}
