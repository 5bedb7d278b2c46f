package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"job-board/internal/domain"
	"job-board/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixedStats struct {
	stats *domain.JobStats
	err   error
	calls int
}

func (f *fixedStats) Stats(context.Context) (*domain.JobStats, error) {
	f.calls++
	return f.stats, f.err
}

func TestRefreshSetsGauges(t *testing.T) {
	src := &fixedStats{stats: &domain.JobStats{
		Total:     5,
		ByJobType: map[domain.JobType]int{domain.JobTypeFullTime: 4, domain.JobTypeContract: 1},
	}}
	r, err := NewStatsRefresher(src, "@every 1h", discard)
	if err != nil {
		t.Fatal(err)
	}
	r.Refresh()

	want := map[domain.JobType]float64{
		domain.JobTypeFullTime:   4,
		domain.JobTypePartTime:   0,
		domain.JobTypeContract:   1,
		domain.JobTypeInternship: 0,
	}
	for jt, v := range want {
		if got := testutil.ToFloat64(metrics.JobPostings.WithLabelValues(string(jt))); got != v {
			t.Errorf("job_postings{job_type=%q} = %v, want %v", jt, got, v)
		}
	}
}

func TestRefreshKeepsGaugesOnError(t *testing.T) {
	metrics.JobPostings.WithLabelValues(string(domain.JobTypeInternship)).Set(7)
	r, err := NewStatsRefresher(&fixedStats{err: errors.New("store down")}, "@every 1h", discard)
	if err != nil {
		t.Fatal(err)
	}
	r.Refresh()
	if got := testutil.ToFloat64(metrics.JobPostings.WithLabelValues(string(domain.JobTypeInternship))); got != 7 {
		t.Errorf("gauge changed on failed refresh: %v", got)
	}
}

func TestInvalidSchedule(t *testing.T) {
	if _, err := NewStatsRefresher(&fixedStats{}, "every minute please", discard); err == nil {
		t.Error("expected a schedule parse error")
	}
}

func TestStartRefreshesAndStops(t *testing.T) {
	src := &fixedStats{stats: &domain.JobStats{ByJobType: map[domain.JobType]int{}}}
	r, err := NewStatsRefresher(src, "@every 1h", discard)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if src.calls < 1 {
		t.Errorf("no initial refresh")
	}
}
