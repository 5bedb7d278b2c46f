package query

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"job-board/internal/domain"
	"job-board/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine turns filter criteria into a page of postings. It holds no mutable
// state and is safe for concurrent use.
//
// Count and Find are separate store calls. Under concurrent writes the total
// and the page reflect the store's own read consistency.
type Engine struct {
	store  domain.JobRepository
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEngine creates an engine reading from store.
func NewEngine(store domain.JobRepository, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With("component", "query-engine"),
		tracer: otel.Tracer("job-board-query"),
	}
}

// Run validates c, counts the filtered set and fetches the requested window.
// Invalid criteria fail with domain.ErrValidation before the store is called.
func (e *Engine) Run(ctx context.Context, c domain.FilterCriteria) (*domain.JobPage, error) {
	ctx, span := e.tracer.Start(ctx, "query.Run")
	defer span.End()

	start := time.Now()
	page, err := e.run(ctx, span, c)
	metrics.JobQueryDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.JobQueriesTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, domain.ErrValidation):
		metrics.JobQueriesTotal.WithLabelValues("invalid").Inc()
		span.RecordError(err)
	default:
		metrics.JobQueriesTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "job query failed")
	}
	return page, err
}

func (e *Engine) run(ctx context.Context, span trace.Span, c domain.FilterCriteria) (*domain.JobPage, error) {
	q, err := Normalize(c)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("page", q.Page),
		attribute.Int("limit", q.Limit),
		attribute.String("sort.field", string(q.Sort.Field)),
		attribute.String("sort.order", string(q.Sort.Order)),
	)

	total, err := e.store.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("total", total))
	if total == 0 || q.Offset() >= total {
		return Package(nil, total, q), nil
	}

	data, err := e.store.Find(ctx, q.Filter, q.Sort, q.Offset(), q.Limit)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("job query served", "total", total, "page", q.Page, "returned", len(data))
	return Package(data, total, q), nil
}
