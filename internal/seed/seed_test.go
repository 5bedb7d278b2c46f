package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"job-board/internal/domain"
	"job-board/internal/infra/memory"
	"job-board/internal/usecase"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService() *usecase.JobService {
	return usecase.NewJobService(memory.NewMemoryJobRepository(discard), nil, discard)
}

func TestSamplesAreValid(t *testing.T) {
	for _, job := range Postings() {
		if err := job.Validate(); err != nil {
			t.Errorf("%s: %v", job.Title, err)
		}
	}
}

func TestRunSeedsOnlyEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	n, err := Run(ctx, svc, false, discard)
	if err != nil || n != 6 {
		t.Fatalf("first run = %d, %v; want 6", n, err)
	}
	n, err = Run(ctx, svc, false, discard)
	if err != nil || n != 0 {
		t.Errorf("second run = %d, %v; want 0", n, err)
	}

	stats, _ := svc.Stats(ctx)
	if stats.Total != 6 || stats.ByJobType[domain.JobTypeFullTime] != 4 ||
		stats.ByJobType[domain.JobTypeContract] != 1 || stats.ByJobType[domain.JobTypeInternship] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunResetReplacesEverything(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	if _, err := Run(ctx, svc, false, discard); err != nil {
		t.Fatal(err)
	}
	extra := Postings()[0]
	extra.Title = "Extra Posting"
	if _, err := svc.Create(ctx, extra); err != nil {
		t.Fatal(err)
	}

	n, err := Run(ctx, svc, true, discard)
	if err != nil || n != 6 {
		t.Fatalf("reset run = %d, %v; want 6", n, err)
	}
	page, err := svc.List(ctx, domain.FilterCriteria{Title: "Extra"})
	if err != nil || page.Total != 0 {
		t.Errorf("extra posting survived reset: %+v, %v", page, err)
	}
}

func TestSeededListing(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	if _, err := Run(ctx, svc, false, discard); err != nil {
		t.Fatal(err)
	}

	page1, limit := 1, 2
	page, err := svc.List(ctx, domain.FilterCriteria{JobType: domain.JobTypeFullTime, Page: &page1, Limit: &limit})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 4 || page.TotalPages != 2 || len(page.Data) != 2 {
		t.Errorf("total=%d totalPages=%d len=%d; want 4, 2, 2", page.Total, page.TotalPages, len(page.Data))
	}

	atLeast := int64(100000)
	page, err = svc.List(ctx, domain.FilterCriteria{SalaryMin: &atLeast})
	if err != nil {
		t.Fatal(err)
	}
	// TechCorp, DataFlow and CloudTech start at or above 100k.
	if page.Total != 3 {
		t.Errorf("salaryMin=100000 matched %d, want 3", page.Total)
	}
}
