// internal/infra/etcd/etcd_job_repository.go
package etcd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"job-board/internal/domain"
	"job-board/internal/query"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	JobSaveDir = "/job-board/jobs/"
)

type etcdJobRepository struct {
	client *clientv3.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEtcdJobRepository creates a repository for postings backed by etcd. Each
// posting is one JSON value under JobSaveDir. Listings are evaluated in-process
// over the whole prefix, ordered by creation revision so ties keep insertion order.
func NewEtcdJobRepository(client *clientv3.Client, logger *slog.Logger) domain.JobRepository {
	return &etcdJobRepository{
		client: client,
		logger: logger.With("component", "etcd-job-repo"),
		tracer: otel.Tracer("job-board-etcd-repo"),
	}
}

func jobKey(id string) string {
	return path.Join(JobSaveDir, id)
}

func (r *etcdJobRepository) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "failed to "+op)
	return domain.StoreError(op, err)
}

// list loads every posting in insertion order.
func (r *etcdJobRepository) list(ctx context.Context, span trace.Span) ([]*domain.JobPosting, error) {
	resp, err := r.client.Get(ctx, JobSaveDir,
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByCreateRevision, clientv3.SortAscend))
	if err != nil {
		return nil, r.fail(span, "list jobs from etcd", err)
	}
	span.SetAttributes(attribute.Int("etcd.kv_count", len(resp.Kvs)))

	jobs := make([]*domain.JobPosting, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var job domain.JobPosting
		if err := json.Unmarshal(kv.Value, &job); err != nil {
			r.logger.Warn("failed to unmarshal job from etcd", "key", string(kv.Key), "error", err)
			continue
		}
		jobs = append(jobs, &job)
	}
	return jobs, nil
}

func (r *etcdJobRepository) Count(ctx context.Context, filter domain.JobFilter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Count")
	defer span.End()

	jobs, err := r.list(ctx, span)
	if err != nil {
		return 0, err
	}
	return len(query.Filter(jobs, filter)), nil
}

func (r *etcdJobRepository) Find(ctx context.Context, filter domain.JobFilter, sort domain.Sort, offset, limit int) ([]*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Find")
	defer span.End()

	jobs, err := r.list(ctx, span)
	if err != nil {
		return nil, err
	}
	return query.Window(query.Filter(jobs, filter), sort, offset, limit), nil
}

// Get retrieves a posting from etcd.
func (r *etcdJobRepository) Get(ctx context.Context, id string) (*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Get")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	resp, err := r.client.Get(ctx, jobKey(id))
	if err != nil {
		return nil, r.fail(span, "get job "+id+" from etcd", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, domain.ErrJobNotFound
	}

	var job domain.JobPosting
	if err := json.Unmarshal(resp.Kvs[0].Value, &job); err != nil {
		return nil, r.fail(span, "unmarshal job "+id, err)
	}
	return &job, nil
}

// Create stores a new posting. The write only succeeds if the key does not
// exist yet.
func (r *etcdJobRepository) Create(ctx context.Context, job *domain.JobPosting) error {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Create")
	defer span.End()

	key := jobKey(job.ID)
	span.SetAttributes(
		attribute.String("job.id", job.ID),
		attribute.String("etcd.key", key),
	)

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job to JSON: %w", err)
	}

	resp, err := r.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, string(jobJSON))).
		Commit()
	if err != nil {
		return r.fail(span, "create job "+job.ID+" in etcd", err)
	}
	if !resp.Succeeded {
		return r.fail(span, "create job "+job.ID, fmt.Errorf("duplicate id %s", job.ID))
	}
	return nil
}

// Update applies patch inside a software transaction so concurrent updates of
// the same posting never lose each other's fields.
func (r *etcdJobRepository) Update(ctx context.Context, id string, patch *domain.JobPatch, now time.Time) (*domain.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Update")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	key := jobKey(id)
	var updated *domain.JobPosting
	_, err := concurrency.NewSTM(r.client, func(stm concurrency.STM) error {
		raw := stm.Get(key)
		if raw == "" {
			return domain.ErrJobNotFound
		}
		var job domain.JobPosting
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return fmt.Errorf("failed to unmarshal job %s: %w", id, err)
		}
		patch.ApplyTo(&job)
		job.Touch(now)

		jobJSON, err := json.Marshal(&job)
		if err != nil {
			return fmt.Errorf("failed to marshal job to JSON: %w", err)
		}
		stm.Put(key, string(jobJSON))
		updated = &job
		return nil
	}, concurrency.WithAbortContext(ctx))
	if errors.Is(err, domain.ErrJobNotFound) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, r.fail(span, "update job "+id+" in etcd", err)
	}
	return updated, nil
}

// Delete removes a posting from etcd.
func (r *etcdJobRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	resp, err := r.client.Delete(ctx, jobKey(id))
	if err != nil {
		return r.fail(span, "delete job "+id+" from etcd", err)
	}
	if resp.Deleted == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *etcdJobRepository) Close() error {
	return r.client.Close()
}
