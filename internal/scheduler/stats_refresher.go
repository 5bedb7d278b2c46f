// internal/scheduler/stats_refresher.go
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"job-board/internal/domain"
	"job-board/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StatsSource reports per-type posting counts.
type StatsSource interface {
	Stats(ctx context.Context) (*domain.JobStats, error)
}

// StatsRefresher periodically publishes posting counts as the job_postings gauge.
type StatsRefresher struct {
	cron    *cron.Cron
	source  StatsSource
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewStatsRefresher schedules a refresh on schedule, a standard cron
// expression or descriptor such as "@every 1m".
func NewStatsRefresher(source StatsSource, schedule string, logger *slog.Logger) (*StatsRefresher, error) {
	r := &StatsRefresher{
		cron:    cron.New(),
		source:  source,
		timeout: 10 * time.Second,
		logger:  logger.With("component", "stats-refresher"),
		tracer:  otel.Tracer("job-board-scheduler"),
	}
	if _, err := r.cron.AddFunc(schedule, r.Refresh); err != nil {
		return nil, err
	}
	return r, nil
}

// Start refreshes once, then runs the schedule until ctx is cancelled.
func (r *StatsRefresher) Start(ctx context.Context) error {
	r.Refresh()
	r.logger.Info("stats refresher started")
	r.cron.Start()
	<-ctx.Done()
	r.logger.Info("stats refresher stopping...")
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("stats refresher stopped")
	return ctx.Err()
}

// Refresh reads the current counts and updates the gauges.
func (r *StatsRefresher) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	ctx, span := r.tracer.Start(ctx, "scheduler.RefreshStats")
	defer span.End()

	stats, err := r.source.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read stats")
		r.logger.Error("failed to refresh job stats", "error", err)
		return
	}
	for _, t := range domain.JobTypes {
		metrics.JobPostings.WithLabelValues(string(t)).Set(float64(stats.ByJobType[t]))
	}
	span.SetAttributes(attribute.Int("jobs.total", stats.Total))
}
