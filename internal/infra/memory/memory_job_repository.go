// internal/infra/memory/memory_job_repository.go
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"job-board/internal/domain"
	"job-board/internal/query"
)

type memoryJobRepository struct {
	mu     sync.RWMutex
	order  []string // ids in insertion order
	byID   map[string]*domain.JobPosting
	logger *slog.Logger
}

// NewMemoryJobRepository creates a process-local store. Listings are evaluated
// in-process and ties in the sort key keep insertion order.
func NewMemoryJobRepository(logger *slog.Logger) domain.JobRepository {
	return &memoryJobRepository{
		byID:   make(map[string]*domain.JobPosting),
		logger: logger.With("component", "memory-job-repo"),
	}
}

// snapshot returns the stored postings in insertion order. Callers must hold mu.
func (r *memoryJobRepository) snapshot() []*domain.JobPosting {
	out := make([]*domain.JobPosting, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *memoryJobRepository) Count(ctx context.Context, filter domain.JobFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(query.Filter(r.snapshot(), filter)), nil
}

func (r *memoryJobRepository) Find(ctx context.Context, filter domain.JobFilter, sort domain.Sort, offset, limit int) ([]*domain.JobPosting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := query.Window(query.Filter(r.snapshot(), filter), sort, offset, limit)
	out := make([]*domain.JobPosting, len(page))
	for i, j := range page {
		out[i] = j.Clone()
	}
	return out, nil
}

func (r *memoryJobRepository) Get(ctx context.Context, id string) (*domain.JobPosting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job.Clone(), nil
}

func (r *memoryJobRepository) Create(ctx context.Context, job *domain.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[job.ID]; ok {
		return domain.StoreError("create job", fmt.Errorf("duplicate id %s", job.ID))
	}
	r.byID[job.ID] = job.Clone()
	r.order = append(r.order, job.ID)
	return nil
}

func (r *memoryJobRepository) Update(ctx context.Context, id string, patch *domain.JobPatch, now time.Time) (*domain.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	updated := job.Clone()
	patch.ApplyTo(updated)
	updated.Touch(now)
	r.byID[id] = updated
	return updated.Clone(), nil
}

func (r *memoryJobRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *memoryJobRepository) Close() error {
	return nil
}
