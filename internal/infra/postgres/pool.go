package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"job-board/internal/infra/sqlbuilder"
	"job-board/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id                   uuid PRIMARY KEY,
		title                varchar(255) NOT NULL,
		company_name         varchar(255) NOT NULL,
		location             varchar(255) NOT NULL,
		job_type             varchar(20) NOT NULL CHECK (job_type IN ('full-time', 'part-time', 'contract', 'internship')),
		salary_range         varchar(100),
		description          text NOT NULL,
		requirements         text NOT NULL,
		responsibilities     text NOT NULL,
		application_deadline date NOT NULL,
		created_at           timestamptz NOT NULL DEFAULT now(),
		updated_at           timestamptz NOT NULL DEFAULT now()
	)`,
	`ALTER TABLE jobs ADD COLUMN IF NOT EXISTS salary_min bigint`,
	`ALTER TABLE jobs ADD COLUMN IF NOT EXISTS salary_max bigint`,
	`ALTER TABLE jobs ADD COLUMN IF NOT EXISTS title_folded text`,
	`ALTER TABLE jobs ADD COLUMN IF NOT EXISTS location_folded text`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_job_type ON jobs (job_type)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_salary_min ON jobs (salary_min)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_salary_max ON jobs (salary_max)`,
}

// NewPool connects to the database at dsn, verifies the connection and makes
// sure the jobs schema exists.
func NewPool(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	n, err := backfillSalaryBounds(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if n > 0 {
		logger.Info("Backfilled salary bounds", "rows", n)
	}
	if n, err = backfillFolded(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if n > 0 {
		logger.Info("Backfilled folded text", "rows", n)
	}
	return pool, nil
}

func backfillSalaryBounds(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	rows, err := pool.Query(ctx,
		`SELECT id::text, salary_range FROM jobs
		 WHERE salary_range IS NOT NULL AND salary_min IS NULL AND salary_max IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for salary backfill: %w", err)
	}
	type pending struct {
		id     string
		salary string
	}
	todo, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (pending, error) {
		var p pending
		err := row.Scan(&p.id, &p.salary)
		return p, err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan for salary backfill: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range todo {
		b := query.ParseSalaryBounds(&p.salary)
		if b.Min == nil && b.Max == nil {
			continue
		}
		batch.Queue(`UPDATE jobs SET salary_min = $1, salary_max = $2 WHERE id = $3`, b.Min, b.Max, p.id)
	}
	if batch.Len() == 0 {
		return 0, nil
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to backfill salary bounds: %w", err)
	}
	return batch.Len(), nil
}

// backfillFolded fills title_folded / location_folded for rows written before
// the columns existed. Folding happens in Go so it matches the query side.
func backfillFolded(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	rows, err := pool.Query(ctx,
		`SELECT id::text, title, location FROM jobs WHERE title_folded IS NULL OR location_folded IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for folded text backfill: %w", err)
	}
	type pending struct{ id, title, location string }
	todo, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (pending, error) {
		var p pending
		err := row.Scan(&p.id, &p.title, &p.location)
		return p, err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan for folded text backfill: %w", err)
	}
	if len(todo) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range todo {
		batch.Queue(`UPDATE jobs SET title_folded = $1, location_folded = $2 WHERE id = $3`,
			sqlbuilder.Fold(p.title), sqlbuilder.Fold(p.location), p.id)
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to backfill folded text: %w", err)
	}
	return len(todo), nil
}
