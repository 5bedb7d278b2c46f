// internal/infra/sqlite/sqlite_job_repository.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"job-board/internal/domain"
	"job-board/internal/infra/sqlbuilder"
	"job-board/internal/query"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const jobColumns = `id, title, company_name, location, job_type, salary_range,
	description, requirements, responsibilities, application_deadline, created_at, updated_at`

type sqliteJobRepository struct {
	db     *sql.DB
	logger *slog.Logger
	tracer trace.Tracer
}

// NewSqliteJobRepository creates a JobRepository over a database opened with Open.
// Timestamps are stored as unix microseconds and the deadline as YYYY-MM-DD text.
func NewSqliteJobRepository(db *sql.DB, logger *slog.Logger) domain.JobRepository {
	return &sqliteJobRepository{
		db:     db,
		logger: logger.With("component", "sqlite-job-repo"),
		tracer: otel.Tracer("job-board-sqlite-repo"),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.JobPosting, error) {
	var (
		job              domain.JobPosting
		jobType          string
		salary           sql.NullString
		deadline         string
		created, updated int64
	)
	err := row.Scan(&job.ID, &job.Title, &job.CompanyName, &job.Location, &jobType, &salary,
		&job.Description, &job.Requirements, &job.Responsibilities, &deadline, &created, &updated)
	if err != nil {
		return nil, err
	}
	job.JobType = domain.JobType(jobType)
	if salary.Valid {
		job.SalaryRange = &salary.String
	}
	if job.ApplicationDeadline, err = domain.ParseDate(deadline); err != nil {
		return nil, fmt.Errorf("job %s: %w", job.ID, err)
	}
	job.CreatedAt = time.UnixMicro(created).UTC()
	job.UpdatedAt = time.UnixMicro(updated).UTC()
	return &job, nil
}

func (r *sqliteJobRepository) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "failed to "+op)
	return domain.StoreError(op, err)
}

func (r *sqliteJobRepository) Count(ctx context.Context, filter domain.JobFilter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sqlite.Count")
	defer span.End()

	where, args := sqlbuilder.Where(filter, sqlbuilder.Question)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs"+where, args...).Scan(&n); err != nil {
		return 0, r.fail(span, "count jobs", err)
	}
	span.SetAttributes(attribute.Int("jobs.count", n))
	return n, nil
}

func (r *sqliteJobRepository) Find(ctx context.Context, filter domain.JobFilter, sort domain.Sort, offset, limit int) ([]*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sqlite.Find")
	defer span.End()

	where, args := sqlbuilder.Where(filter, sqlbuilder.Question)
	stmt := "SELECT " + jobColumns + " FROM jobs" + where +
		sqlbuilder.OrderBy(sort) + sqlbuilder.LimitOffset(sqlbuilder.Question, len(args)+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, r.fail(span, "find jobs", err)
	}
	defer rows.Close()

	jobs := make([]*domain.JobPosting, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, r.fail(span, "find jobs", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(span, "find jobs", err)
	}
	return jobs, nil
}

func (r *sqliteJobRepository) Get(ctx context.Context, id string) (*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sqlite.Get")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	job, err := scanJob(r.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, r.fail(span, "get job "+id, err)
	}
	return job, nil
}

func (r *sqliteJobRepository) Create(ctx context.Context, job *domain.JobPosting) error {
	ctx, span := r.tracer.Start(ctx, "repo.sqlite.Create")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", job.ID))

	bounds := query.ParseSalaryBounds(job.SalaryRange)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`, salary_min, salary_max, title_folded, location_folded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.CompanyName, job.Location, string(job.JobType), nullString(job.SalaryRange),
		job.Description, job.Requirements, job.Responsibilities, job.ApplicationDeadline.String(),
		job.CreatedAt.UnixMicro(), job.UpdatedAt.UnixMicro(), nullInt(bounds.Min), nullInt(bounds.Max),
		sqlbuilder.Fold(job.Title), sqlbuilder.Fold(job.Location))
	if err != nil {
		return r.fail(span, "create job "+job.ID, err)
	}
	return nil
}

func (r *sqliteJobRepository) Update(ctx context.Context, id string, patch *domain.JobPatch, now time.Time) (*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sqlite.Update")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}
	defer tx.Rollback()

	job, err := scanJob(tx.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}

	patch.ApplyTo(job)
	job.Touch(now)
	bounds := query.ParseSalaryBounds(job.SalaryRange)

	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET title = ?, company_name = ?, location = ?, job_type = ?, salary_range = ?,
		 salary_min = ?, salary_max = ?, title_folded = ?, location_folded = ?, description = ?,
		 requirements = ?, responsibilities = ?, application_deadline = ?, updated_at = ?
		 WHERE id = ?`,
		job.Title, job.CompanyName, job.Location, string(job.JobType), nullString(job.SalaryRange),
		nullInt(bounds.Min), nullInt(bounds.Max), sqlbuilder.Fold(job.Title), sqlbuilder.Fold(job.Location),
		job.Description, job.Requirements, job.Responsibilities,
		job.ApplicationDeadline.String(), job.UpdatedAt.UnixMicro(), id)
	if err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}
	return job, nil
}

func (r *sqliteJobRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "repo.sqlite.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	res, err := r.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return r.fail(span, "delete job "+id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail(span, "delete job "+id, err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *sqliteJobRepository) Close() error {
	return r.db.Close()
}
