// Package events publishes posting lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"job-board/internal/domain"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultSubjectPrefix = "jobs"

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
	tracer trace.Tracer
}

// NewPublisher connects to the NATS server at url. Events are published on
// "<prefix>.<type>", e.g. jobs.created.
func NewPublisher(url, prefix string, timeout time.Duration, logger *slog.Logger) (domain.EventPublisher, error) {
	opts := []nats.Option{
		nats.Name("job-board"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &natsPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With("component", "nats-publisher"),
		tracer: otel.Tracer("job-board-events"),
	}, nil
}

// Subject is the NATS subject an event of type t is published on.
func Subject(prefix string, t domain.EventType) string {
	return prefix + "." + string(t)
}

func (p *natsPublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	_, span := p.tracer.Start(ctx, "events.Publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	subject := Subject(p.prefix, event.Type)
	span.SetAttributes(
		attribute.String("nats.subject", subject),
		attribute.String("job.id", event.JobID),
		attribute.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish event")
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("Published job event", "subject", subject, "job_id", event.JobID)
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}
