// Package storage persists per-project preferences, currently the
// default hourly rate applied when booking new line items.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"uren/internal/core"

	_ "modernc.org/sqlite"
)

type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(dbPath string) (*RateRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &RateRepository{db: db}, nil
}

func (r *RateRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SetRate stores the default hourly rate for a project, replacing any
// previous value.
func (r *RateRepository) SetRate(ctx context.Context, aggregateID string, rate core.Money) error {
	if aggregateID == "" {
		return errors.New("empty aggregate id")
	}
	if err := rate.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_rates (aggregate_id, rate_cents, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(aggregate_id) DO UPDATE SET
			rate_cents = excluded.rate_cents,
			updated_at = CURRENT_TIMESTAMP`,
		aggregateID, rate.Cents)
	if err != nil {
		return fmt.Errorf("store rate for %s: %w", aggregateID, err)
	}

	slog.InfoContext(ctx, "Project rate saved",
		"aggregate_id", aggregateID,
		"rate_cents", rate.Cents)
	return nil
}

// GetRate returns the stored rate for a project. The second return
// value reports whether a rate was set.
func (r *RateRepository) GetRate(ctx context.Context, aggregateID string) (core.Money, bool, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT rate_cents FROM project_rates WHERE aggregate_id = ?`,
		aggregateID).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, false, nil
	}
	if err != nil {
		return core.Money{}, false, fmt.Errorf("read rate for %s: %w", aggregateID, err)
	}
	return core.Money{Cents: cents}, true, nil
}

// ListRates returns every stored rate keyed by aggregate id.
func (r *RateRepository) ListRates(ctx context.Context) (map[string]core.Money, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT aggregate_id, rate_cents FROM project_rates`)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]core.Money)
	for rows.Next() {
		var id string
		var cents int64
		if err := rows.Scan(&id, &cents); err != nil {
			return nil, fmt.Errorf("scan rate row: %w", err)
		}
		rates[id] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}
	return rates, nil
}

// DeleteRate removes the stored rate for a project, if any.
func (r *RateRepository) DeleteRate(ctx context.Context, aggregateID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_rates WHERE aggregate_id = ?`, aggregateID)
	if err != nil {
		return fmt.Errorf("delete rate for %s: %w", aggregateID, err)
	}
	return nil
}
