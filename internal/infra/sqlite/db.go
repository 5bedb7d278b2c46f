package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"job-board/internal/infra/sqlbuilder"
	"job-board/internal/query"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const createTable = `CREATE TABLE IF NOT EXISTS jobs (
	id                   TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	company_name         TEXT NOT NULL,
	location             TEXT NOT NULL,
	job_type             TEXT NOT NULL CHECK (job_type IN ('full-time', 'part-time', 'contract', 'internship')),
	salary_range         TEXT,
	description          TEXT NOT NULL,
	requirements         TEXT NOT NULL,
	responsibilities     TEXT NOT NULL,
	application_deadline TEXT NOT NULL,
	created_at           INTEGER NOT NULL,
	updated_at           INTEGER NOT NULL
)`

// derivedColumns are computed from the stored text at write time. They are
// added to tables created before they existed and filled by the backfills.
var derivedColumns = []struct{ name, decl string }{
	{"salary_min", "INTEGER"},
	{"salary_max", "INTEGER"},
	{"title_folded", "TEXT"},
	{"location_folded", "TEXT"},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_jobs_job_type ON jobs (job_type)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_salary_min ON jobs (salary_min)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_salary_max ON jobs (salary_max)`,
}

// Open opens (creating if needed) the database at path and prepares the jobs
// schema. The pool is pinned to a single connection: SQLite serializes writers
// anyway and an in-memory database exists per connection.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := prepare(ctx, db, path, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func prepare(ctx context.Context, db *sql.DB, path string, logger *slog.Logger) error {
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, stmt := range append(pragmas, createTable) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare sqlite schema: %w", err)
		}
	}
	added, err := addMissingColumns(ctx, db)
	if err != nil {
		return err
	}
	if len(added) > 0 {
		logger.Debug("Added derived columns", "columns", added)
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare sqlite schema: %w", err)
		}
	}

	n, err := backfillSalaryBounds(ctx, db)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("Backfilled salary bounds", "rows", n)
	}
	if n, err = backfillFolded(ctx, db); err != nil {
		return err
	}
	if n > 0 {
		logger.Info("Backfilled folded text", "rows", n)
	}
	return nil
}

// addMissingColumns adds the derived columns a pre-existing jobs table lacks
// and returns their names.
func addMissingColumns(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('jobs')`)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect jobs table: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to inspect jobs table: %w", err)
		}
		existing[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to inspect jobs table: %w", err)
	}

	var added []string
	for _, col := range derivedColumns {
		if existing[col.name] {
			continue
		}
		if _, err := db.ExecContext(ctx, "ALTER TABLE jobs ADD COLUMN "+col.name+" "+col.decl); err != nil {
			return added, fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
		added = append(added, col.name)
	}
	return added, nil
}

// backfillSalaryBounds derives salary_min / salary_max for rows that carry a
// salary text but no bounds, e.g. rows written before the columns existed.
func backfillSalaryBounds(ctx context.Context, db *sql.DB) (int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, salary_range FROM jobs
		 WHERE salary_range IS NOT NULL AND salary_min IS NULL AND salary_max IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for salary backfill: %w", err)
	}
	type pending struct {
		id     string
		salary string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.salary); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan for salary backfill: %w", err)
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan for salary backfill: %w", err)
	}

	updated := 0
	for _, p := range todo {
		b := query.ParseSalaryBounds(&p.salary)
		if b.Min == nil && b.Max == nil {
			continue
		}
		if _, err := db.ExecContext(ctx,
			`UPDATE jobs SET salary_min = ?, salary_max = ? WHERE id = ?`,
			nullInt(b.Min), nullInt(b.Max), p.id); err != nil {
			return updated, fmt.Errorf("failed to backfill salary bounds for %s: %w", p.id, err)
		}
		updated++
	}
	return updated, nil
}

// backfillFolded fills title_folded / location_folded for rows written before
// the columns existed.
func backfillFolded(ctx context.Context, db *sql.DB) (int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, location FROM jobs WHERE title_folded IS NULL OR location_folded IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for folded text backfill: %w", err)
	}
	type pending struct{ id, title, location string }
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.title, &p.location); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan for folded text backfill: %w", err)
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan for folded text backfill: %w", err)
	}

	for i, p := range todo {
		if _, err := db.ExecContext(ctx,
			`UPDATE jobs SET title_folded = ?, location_folded = ? WHERE id = ?`,
			sqlbuilder.Fold(p.title), sqlbuilder.Fold(p.location), p.id); err != nil {
			return i, fmt.Errorf("failed to backfill folded text for %s: %w", p.id, err)
		}
	}
	return len(todo), nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
