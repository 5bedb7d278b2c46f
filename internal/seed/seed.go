package seed

import (
	"context"
	"fmt"
	"log/slog"

	"job-board/internal/domain"
	"job-board/internal/query"
	"job-board/internal/usecase"
)

// Run loads the sample postings through svc. Without reset it only seeds an
// empty store; with reset every stored posting is deleted first. It returns
// the number of postings created.
func Run(ctx context.Context, svc *usecase.JobService, reset bool, logger *slog.Logger) (int, error) {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count existing jobs: %w", err)
	}

	if stats.Total > 0 && !reset {
		logger.Info("Store already has jobs, skipping seed", "total", stats.Total)
		return 0, nil
	}
	if reset && stats.Total > 0 {
		removed, err := deleteAll(ctx, svc)
		if err != nil {
			return 0, err
		}
		logger.Info("Cleared existing jobs", "removed", removed)
	}

	created := 0
	for _, job := range Postings() {
		if _, err := svc.Create(ctx, job); err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", job.Title, err)
		}
		created++
	}
	logger.Info("Seeded sample jobs", "created", created)
	return created, nil
}

// deleteAll deletes every posting, one page at a time.
func deleteAll(ctx context.Context, svc *usecase.JobService) (int, error) {
	limit := query.MaxLimit
	removed := 0
	for {
		page, err := svc.List(ctx, domain.FilterCriteria{Limit: &limit})
		if err != nil {
			return removed, fmt.Errorf("failed to list jobs: %w", err)
		}
		if len(page.Data) == 0 {
			return removed, nil
		}
		for _, job := range page.Data {
			if err := svc.Delete(ctx, job.ID); err != nil {
				return removed, fmt.Errorf("failed to delete job %s: %w", job.ID, err)
			}
			removed++
		}
	}
}
