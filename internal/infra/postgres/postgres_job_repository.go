// internal/infra/postgres/postgres_job_repository.go
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"job-board/internal/domain"
	"job-board/internal/infra/sqlbuilder"
	"job-board/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const selectJobs = `SELECT id::text, title, company_name, location, job_type, salary_range,
	description, requirements, responsibilities, application_deadline, created_at, updated_at
	FROM jobs`

type postgresJobRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	tracer trace.Tracer
}

// NewPostgresJobRepository creates a JobRepository over pool. The pool is
// closed by Close.
func NewPostgresJobRepository(pool *pgxpool.Pool, logger *slog.Logger) domain.JobRepository {
	return &postgresJobRepository{
		pool:   pool,
		logger: logger.With("component", "postgres-job-repo"),
		tracer: otel.Tracer("job-board-postgres-repo"),
	}
}

func scanJob(row pgx.Row) (*domain.JobPosting, error) {
	var (
		job      domain.JobPosting
		jobType  string
		deadline time.Time
	)
	err := row.Scan(&job.ID, &job.Title, &job.CompanyName, &job.Location, &jobType, &job.SalaryRange,
		&job.Description, &job.Requirements, &job.Responsibilities, &deadline, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.JobType = domain.JobType(jobType)
	job.ApplicationDeadline = domain.DateOf(deadline)
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return &job, nil
}

func (r *postgresJobRepository) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "failed to "+op)
	return domain.StoreError(op, err)
}

func (r *postgresJobRepository) Count(ctx context.Context, filter domain.JobFilter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "repo.postgres.Count")
	defer span.End()

	where, args := sqlbuilder.Where(filter, sqlbuilder.Dollar)
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM jobs"+where, args...).Scan(&n); err != nil {
		return 0, r.fail(span, "count jobs", err)
	}
	span.SetAttributes(attribute.Int("jobs.count", n))
	return n, nil
}

func (r *postgresJobRepository) Find(ctx context.Context, filter domain.JobFilter, sort domain.Sort, offset, limit int) ([]*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.postgres.Find")
	defer span.End()

	where, args := sqlbuilder.Where(filter, sqlbuilder.Dollar)
	stmt := selectJobs + where + sqlbuilder.OrderBy(sort) + sqlbuilder.LimitOffset(sqlbuilder.Dollar, len(args)+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, r.fail(span, "find jobs", err)
	}
	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.JobPosting, error) {
		return scanJob(row)
	})
	if err != nil {
		return nil, r.fail(span, "find jobs", err)
	}
	if jobs == nil {
		jobs = []*domain.JobPosting{}
	}
	return jobs, nil
}

func (r *postgresJobRepository) Get(ctx context.Context, id string) (*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.postgres.Get")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	job, err := scanJob(r.pool.QueryRow(ctx, selectJobs+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, r.fail(span, "get job "+id, err)
	}
	return job, nil
}

func (r *postgresJobRepository) Create(ctx context.Context, job *domain.JobPosting) error {
	ctx, span := r.tracer.Start(ctx, "repo.postgres.Create")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", job.ID))

	bounds := query.ParseSalaryBounds(job.SalaryRange)
	_, err := r.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company_name, location, job_type, salary_range, salary_min, salary_max,
			title_folded, location_folded, description, requirements, responsibilities, application_deadline,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		job.ID, job.Title, job.CompanyName, job.Location, string(job.JobType), job.SalaryRange,
		bounds.Min, bounds.Max, sqlbuilder.Fold(job.Title), sqlbuilder.Fold(job.Location),
		job.Description, job.Requirements, job.Responsibilities,
		job.ApplicationDeadline.Time, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return r.fail(span, "create job "+job.ID, err)
	}
	return nil
}

func (r *postgresJobRepository) Update(ctx context.Context, id string, patch *domain.JobPatch, now time.Time) (*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.postgres.Update")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}
	defer tx.Rollback(ctx)

	job, err := scanJob(tx.QueryRow(ctx, selectJobs+" WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}

	patch.ApplyTo(job)
	job.Touch(now)
	bounds := query.ParseSalaryBounds(job.SalaryRange)

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET title = $1, company_name = $2, location = $3, job_type = $4, salary_range = $5,
			salary_min = $6, salary_max = $7, title_folded = $8, location_folded = $9, description = $10,
			requirements = $11, responsibilities = $12, application_deadline = $13, updated_at = $14
		 WHERE id = $15`,
		job.Title, job.CompanyName, job.Location, string(job.JobType), job.SalaryRange,
		bounds.Min, bounds.Max, sqlbuilder.Fold(job.Title), sqlbuilder.Fold(job.Location),
		job.Description, job.Requirements, job.Responsibilities,
		job.ApplicationDeadline.Time, job.UpdatedAt, id)
	if err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, r.fail(span, "update job "+id, err)
	}
	return job, nil
}

func (r *postgresJobRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "repo.postgres.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	tag, err := r.pool.Exec(ctx, "DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return r.fail(span, "delete job "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *postgresJobRepository) Close() error {
	r.pool.Close()
	return nil
}
