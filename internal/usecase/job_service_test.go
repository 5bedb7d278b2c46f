package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"job-board/internal/domain"
	"job-board/internal/infra/memory"

	"github.com/google/uuid"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.JobEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() {}

func newPosting() *domain.JobPosting {
	salary := "$80,000 - $120,000"
	return &domain.JobPosting{
		Title:               "Senior Software Engineer",
		CompanyName:         "TechCorp Inc.",
		Location:            "San Francisco, CA",
		JobType:             domain.JobTypeFullTime,
		SalaryRange:         &salary,
		Description:         "Design and build backend services.",
		Requirements:        "Five years of Go experience.",
		Responsibilities:    "Own services end to end.",
		ApplicationDeadline: domain.NewDate(2025, time.December, 31),
	}
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewJobService(memory.NewMemoryJobRepository(discard), pub, discard)

	job, err := svc.Create(context.Background(), newPosting())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("id %q is not a UUID", job.ID)
	}
	if job.CreatedAt.IsZero() || !job.CreatedAt.Equal(job.UpdatedAt) {
		t.Errorf("timestamps: created %v updated %v", job.CreatedAt, job.UpdatedAt)
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.EventJobCreated || pub.events[0].JobID != job.ID {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	pub := &recordingPublisher{}
	repo := memory.NewMemoryJobRepository(discard)
	svc := NewJobService(repo, pub, discard)

	bad := newPosting()
	bad.Title = ""
	bad.JobType = "freelance"
	_, err := svc.Create(context.Background(), bad)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if n, _ := repo.Count(context.Background(), domain.JobFilter{}); n != 0 {
		t.Errorf("invalid posting was stored")
	}
	if len(pub.events) != 0 {
		t.Errorf("event published for rejected posting")
	}
}

func TestCreateTreatsEmptySalaryAsAbsent(t *testing.T) {
	svc := NewJobService(memory.NewMemoryJobRepository(discard), nil, discard)
	p := newPosting()
	empty := ""
	p.SalaryRange = &empty
	job, err := svc.Create(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if job.SalaryRange != nil {
		t.Errorf("salary = %q, want nil", *job.SalaryRange)
	}
}

func TestGetMalformedAndUnknownIDs(t *testing.T) {
	svc := NewJobService(memory.NewMemoryJobRepository(discard), nil, discard)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("malformed id: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Get(ctx, uuid.NewString()); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("unknown id: expected ErrJobNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "123"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("malformed delete: expected ErrValidation, got %v", err)
	}
}

func TestGetCanonicalizesID(t *testing.T) {
	svc := NewJobService(memory.NewMemoryJobRepository(discard), nil, discard)
	job, err := svc.Create(context.Background(), newPosting())
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(context.Background(), "{"+job.ID+"}")
	if err != nil || got.ID != job.ID {
		t.Errorf("get with braces = %v, %v", got, err)
	}
}

func TestUpdateIsPartial(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewJobService(memory.NewMemoryJobRepository(discard), pub, discard)
	ctx := context.Background()

	created, err := svc.Create(ctx, newPosting())
	if err != nil {
		t.Fatal(err)
	}
	title := "Staff Engineer"
	updated, err := svc.Update(ctx, created.ID, &domain.JobPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != title {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.CompanyName != created.CompanyName || *updated.SalaryRange != *created.SalaryRange ||
		updated.ApplicationDeadline != created.ApplicationDeadline {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt did not advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if last := pub.events[len(pub.events)-1]; last.Type != domain.EventJobUpdated || last.Job.Title != title {
		t.Errorf("last event = %+v", last)
	}
}

func TestUpdateRejectsBadPatches(t *testing.T) {
	svc := NewJobService(memory.NewMemoryJobRepository(discard), nil, discard)
	ctx := context.Background()
	created, _ := svc.Create(ctx, newPosting())

	short := "too short"
	tests := map[string]*domain.JobPatch{
		"empty patch":       {},
		"short description": {Description: &short},
	}
	for name, patch := range tests {
		if _, err := svc.Update(ctx, created.ID, patch); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	title := "x"
	if _, err := svc.Update(ctx, uuid.NewString(), &domain.JobPatch{Title: &title}); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("unknown id: expected ErrJobNotFound, got %v", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewJobService(memory.NewMemoryJobRepository(discard), pub, discard)
	ctx := context.Background()
	created, _ := svc.Create(ctx, newPosting())

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("second delete: %v", err)
	}
	if last := pub.events[len(pub.events)-1]; last.Type != domain.EventJobDeleted || last.Job != nil {
		t.Errorf("last event = %+v", last)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats: connection closed")}
	svc := NewJobService(memory.NewMemoryJobRepository(discard), pub, discard)

	job, err := svc.Create(context.Background(), newPosting())
	if err != nil {
		t.Fatalf("create failed because of publisher: %v", err)
	}
	if _, err := svc.Get(context.Background(), job.ID); err != nil {
		t.Errorf("posting not stored: %v", err)
	}
}

func TestListAndStats(t *testing.T) {
	svc := NewJobService(memory.NewMemoryJobRepository(discard), nil, discard)
	ctx := context.Background()
	for _, jt := range []domain.JobType{domain.JobTypeFullTime, domain.JobTypeFullTime, domain.JobTypeInternship} {
		p := newPosting()
		p.JobType = jt
		if _, err := svc.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.List(ctx, domain.FilterCriteria{JobType: domain.JobTypeFullTime})
	if err != nil || page.Total != 2 || page.TotalPages != 1 {
		t.Errorf("list = %+v, %v", page, err)
	}
	if _, err := svc.List(ctx, domain.FilterCriteria{SortOrder: "sideways"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad sort order: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 || stats.ByJobType[domain.JobTypeFullTime] != 2 ||
		stats.ByJobType[domain.JobTypeInternship] != 1 || stats.ByJobType[domain.JobTypeContract] != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestClockIsStrictlyIncreasing(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &Clock{now: func() time.Time { return frozen }}
	a, b := c.Now(), c.Now()
	if !b.After(a) {
		t.Errorf("%v is not after %v", b, a)
	}
}
