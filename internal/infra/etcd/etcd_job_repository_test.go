package etcd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"job-board/internal/domain"

	"github.com/google/uuid"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// newTestRepo connects to the cluster listed in JOBBOARD_TEST_ETCD_ENDPOINTS
// (comma separated) and skips the test when it is unset.
func newTestRepo(t *testing.T) domain.JobRepository {
	t.Helper()
	endpoints := os.Getenv("JOBBOARD_TEST_ETCD_ENDPOINTS")
	if endpoints == "" {
		t.Skip("JOBBOARD_TEST_ETCD_ENDPOINTS not set")
	}
	client, err := NewClient(strings.Split(endpoints, ","), 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := client.Delete(context.Background(), JobSaveDir, clientv3.WithPrefix()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	repo := NewEtcdJobRepository(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { repo.Close() })
	return repo
}

func posting(title string, created time.Time) *domain.JobPosting {
	return &domain.JobPosting{
		ID:                  uuid.NewString(),
		Title:               title,
		CompanyName:         "Acme",
		Location:            "Remote",
		JobType:             domain.JobTypeFullTime,
		Description:         "Build and run things.",
		Requirements:        "Some experience.",
		Responsibilities:    "Ship features.",
		ApplicationDeadline: domain.NewDate(2025, time.March, 15),
		CreatedAt:           created,
		UpdatedAt:           created,
	}
}

func TestEtcdLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	first := posting("Go Engineer", base)
	second := posting("Rust Engineer", base)
	for _, j := range []*domain.JobPosting{first, second} {
		if err := repo.Create(ctx, j); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(ctx, first); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("duplicate create: %v", err)
	}

	page, err := repo.Find(ctx, domain.JobFilter{Title: "engineer"},
		domain.Sort{Field: domain.SortByCreatedAt, Order: domain.SortDesc}, 0, 10)
	if err != nil || len(page) != 2 || page[0].ID != first.ID {
		t.Errorf("find = %v, %v; ties should keep insertion order", page, err)
	}

	if err := repo.Delete(ctx, second.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, second.ID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestEtcdConcurrentPatchesKeepBothFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	job := posting("Go Engineer", time.Now().UTC())
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	title, location := "Staff Go Engineer", "Berlin"
	var wg sync.WaitGroup
	for _, patch := range []*domain.JobPatch{{Title: &title}, {Location: &location}} {
		wg.Add(1)
		go func(p *domain.JobPatch) {
			defer wg.Done()
			if _, err := repo.Update(ctx, job.ID, p, time.Now()); err != nil {
				t.Errorf("update: %v", err)
			}
		}(patch)
	}
	wg.Wait()

	got, err := repo.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != title || got.Location != location {
		t.Errorf("lost update: %+v", got)
	}
}
