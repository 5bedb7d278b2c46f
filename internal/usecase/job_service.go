package usecase

import (
	"context"
	"log/slog"

	"job-board/internal/domain"
	"job-board/internal/metrics"
	"job-board/internal/query"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// JobService implements the posting use cases on top of a JobRepository.
type JobService struct {
	repo   domain.JobRepository
	engine *query.Engine
	events domain.EventPublisher // optional
	clock  *Clock
	logger *slog.Logger
	tracer trace.Tracer
}

// NewJobService creates a new JobService instance. events may be nil.
func NewJobService(repo domain.JobRepository, events domain.EventPublisher, logger *slog.Logger) *JobService {
	return &JobService{
		repo:   repo,
		engine: query.NewEngine(repo, logger),
		events: events,
		clock:  NewClock(),
		logger: logger.With("component", "job-service"),
		tracer: otel.Tracer("job-board-usecase"),
	}
}

// parseID canonicalizes a posting id. Anything that is not a UUID is a
// validation failure, never a lookup.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.NewValidationError("id", "must be a valid UUID")
	}
	return parsed.String(), nil
}

func fail(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

// Create validates job, assigns its id and timestamps and stores it.
func (s *JobService) Create(ctx context.Context, job *domain.JobPosting) (*domain.JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "service.Create")
	defer span.End()

	if job.SalaryRange != nil && *job.SalaryRange == "" {
		job.SalaryRange = nil
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	job.ID = uuid.NewString()
	now := s.clock.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	span.SetAttributes(attribute.String("job.id", job.ID), attribute.String("job.type", string(job.JobType)))

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fail(span, "failed to save job to repository", err)
	}

	s.logger.Info("Job created", "job_id", job.ID, "job_type", job.JobType)
	s.publish(ctx, domain.EventJobCreated, job.ID, job)
	return job, nil
}

// Get returns the posting with the given id.
func (s *JobService) Get(ctx context.Context, id string) (*domain.JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "service.Get")
	defer span.End()

	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("job.id", id))

	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fail(span, "failed to get job from repository", err)
	}
	return job, nil
}

// Update applies the supplied fields of patch to the posting and refreshes its
// UpdatedAt. CreatedAt and every unsupplied field keep their values.
func (s *JobService) Update(ctx context.Context, id string, patch *domain.JobPatch) (*domain.JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "service.Update")
	defer span.End()

	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("job.id", id))

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	job, err := s.repo.Update(ctx, id, patch, s.clock.Now())
	if err != nil {
		return nil, fail(span, "failed to update job in repository", err)
	}

	s.logger.Info("Job updated", "job_id", id)
	s.publish(ctx, domain.EventJobUpdated, id, job)
	return job, nil
}

// Delete removes the posting with the given id.
func (s *JobService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "service.Delete")
	defer span.End()

	id, err := parseID(id)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("job.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return fail(span, "failed to delete job from repository", err)
	}

	s.logger.Info("Job deleted", "job_id", id)
	s.publish(ctx, domain.EventJobDeleted, id, nil)
	return nil
}

// List runs a filtered, sorted and paginated listing.
func (s *JobService) List(ctx context.Context, criteria domain.FilterCriteria) (*domain.JobPage, error) {
	return s.engine.Run(ctx, criteria)
}

// Stats counts the stored postings per job type.
func (s *JobService) Stats(ctx context.Context) (*domain.JobStats, error) {
	ctx, span := s.tracer.Start(ctx, "service.Stats")
	defer span.End()

	stats := &domain.JobStats{ByJobType: make(map[domain.JobType]int, len(domain.JobTypes))}
	for _, t := range domain.JobTypes {
		n, err := s.repo.Count(ctx, domain.JobFilter{JobType: t})
		if err != nil {
			return nil, fail(span, "failed to count jobs", err)
		}
		stats.ByJobType[t] = n
		stats.Total += n
	}
	span.SetAttributes(attribute.Int("jobs.total", stats.Total))
	return stats, nil
}

// publish hands the event to the configured publisher. A committed mutation
// is never failed by a publishing problem.
func (s *JobService) publish(ctx context.Context, typ domain.EventType, id string, job *domain.JobPosting) {
	if s.events == nil {
		return
	}
	event := domain.JobEvent{Type: typ, JobID: id, Job: job, OccurredAt: s.clock.Now()}
	if err := s.events.Publish(ctx, event); err != nil {
		metrics.JobEventsPublished.WithLabelValues(string(typ), "error").Inc()
		s.logger.Warn("Failed to publish job event", "type", typ, "job_id", id, "error", err)
		return
	}
	metrics.JobEventsPublished.WithLabelValues(string(typ), "ok").Inc()
}
