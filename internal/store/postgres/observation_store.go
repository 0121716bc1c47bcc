// Package postgres persists scraped observations in long format.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zperzan/scrape-wunderground/internal/clock"
	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

const (
	schemaSQL = `
CREATE TABLE IF NOT EXISTS observations (
	station     TEXT        NOT NULL,
	mode        TEXT        NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	metric      TEXT        NOT NULL,
	value       DOUBLE PRECISION NOT NULL,
	scraped_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (station, mode, observed_at, metric)
)`

	upsertSQL = `
INSERT INTO observations (station, mode, observed_at, metric, value, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (station, mode, observed_at, metric)
DO UPDATE SET value = EXCLUDED.value, scraped_at = EXCLUDED.scraped_at`
)

// pgxPool is the slice of pgxpool.Pool the store uses, narrowed so pgxmock
// can stand in during tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults
	Close()
}

// ObservationStore writes observation tables into Postgres, one row per
// non-missing cell, keyed by (station, mode, observed_at, metric) with last
// write winning.
type ObservationStore struct {
	pool  pgxPool
	clock clock.Clock
}

// New dials a pgx pool for the DSN and wraps it in an ObservationStore.
func New(ctx context.Context, dsn string) (*ObservationStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &ObservationStore{pool: pool, clock: clock.NewSystem()}, nil
}

// NewWithPool wraps an existing pool, primarily for tests.
func NewWithPool(pool pgxPool, clk clock.Clock) (*ObservationStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ObservationStore{pool: pool, clock: clk}, nil
}

// Close releases the underlying pool.
func (s *ObservationStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the observations table when absent.
func (s *ObservationStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure observations schema: %w", err)
	}
	return nil
}

// Upsert writes every non-missing cell of the table as one batched upsert
// and returns the number of rows written. Missing cells are skipped: absence
// is modelled by absence, not by NULL rows.
func (s *ObservationStore) Upsert(
	ctx context.Context,
	station string,
	mode wunderground.Frequency,
	table *wunderground.Table,
) (int64, error) {
	if table == nil || table.Empty() {
		return 0, nil
	}
	scrapedAt := s.clock.Now()

	batch := &pgx.Batch{}
	for i, observedAt := range table.Index {
		for j, cell := range table.Cells[i] {
			if cell == nil {
				continue
			}
			batch.Queue(upsertSQL, station, string(mode), observedAt, table.Columns[j], *cell, scrapedAt)
		}
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck // the per-Exec errors below cover failures

	var written int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert observation %d of %d: %w", i+1, batch.Len(), err)
		}
		written += tag.RowsAffected()
	}
	return written, nil
}

// ObservedRange reports the earliest and latest timestamps in the table, for
// log context after an upsert.
func ObservedRange(table *wunderground.Table) (first, last time.Time) {
	if table == nil || table.Empty() {
		return time.Time{}, time.Time{}
	}
	return table.Index[0], table.Index[table.Len()-1]
}
