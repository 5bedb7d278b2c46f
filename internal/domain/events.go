package domain

import (
	"context"
	"time"
)

// EventType identifies a posting lifecycle change.
type EventType string

const (
	EventJobCreated EventType = "created"
	EventJobUpdated EventType = "updated"
	EventJobDeleted EventType = "deleted"
)

// JobEvent is emitted after a mutation has been committed to the store.
type JobEvent struct {
	Type       EventType   `json:"type"`
	JobID      string      `json:"jobId"`
	Job        *JobPosting `json:"job,omitempty"` // nil for deletions
	OccurredAt time.Time   `json:"occurredAt"`
}

// EventPublisher forwards lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event JobEvent) error
	Close()
}
