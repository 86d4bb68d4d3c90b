package policystore

import (
	"context"
	"database/sql"
	"fmt"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
)

// PostgresStore keeps the policy in the settings key-value table.
type PostgresStore struct{ DB *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) LoadPolicy(ctx context.Context) (_ domain.Policy, err error) {
	defer obs.Time(ctx, "postgres.LoadPolicy")(&err)

	rows, err := s.DB.QueryContext(ctx,
		`SELECT key, value FROM settings WHERE key = ANY($1);`,
		[]string{DurationsKey, PausedKey},
	)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("load policy: query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string][]byte, 2)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return domain.Policy{}, fmt.Errorf("load policy: scan row: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return domain.Policy{}, fmt.Errorf("load policy: row iteration: %w", err)
	}

	p, err := decodePolicy(values[DurationsKey], values[PausedKey])
	if err != nil {
		return domain.Policy{}, fmt.Errorf("load policy: %w", err)
	}
	return p, nil
}

// SavePolicy upserts both keys in one transaction.
func (s *PostgresStore) SavePolicy(ctx context.Context, p domain.Policy) (err error) {
	defer obs.Time(ctx, "postgres.SavePolicy")(&err)

	durations, paused, err := encodePolicy(p)
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save policy: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO settings (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("save policy: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for key, value := range map[string][]byte{DurationsKey: durations, PausedKey: paused} {
		if _, err := stmt.ExecContext(ctx, key, string(value)); err != nil {
			return fmt.Errorf("save policy: upsert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save policy: commit tx: %w", err)
	}
	return nil
}
