package domain

import (
	"context"
	"time"
)

// JobRepository is the record store owning persisted postings.
//
// Get, Update and Delete return ErrJobNotFound for an unknown id. Any other
// failure of the backing store matches ErrStoreUnavailable. Single-record
// mutations are atomic.
type JobRepository interface {
	// Count returns the number of postings matching filter.
	Count(ctx context.Context, filter JobFilter) (int, error)
	// Find returns at most limit matching postings ordered by sort, skipping offset.
	Find(ctx context.Context, filter JobFilter, sort Sort, offset, limit int) ([]*JobPosting, error)
	Get(ctx context.Context, id string) (*JobPosting, error)
	Create(ctx context.Context, job *JobPosting) error
	// Update applies patch to the stored posting and advances its UpdatedAt
	// using now, returning the stored result.
	Update(ctx context.Context, id string, patch *JobPatch, now time.Time) (*JobPosting, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
