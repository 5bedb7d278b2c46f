package query

import (
	"slices"
	"strings"

	"job-board/internal/domain"
)

// Filter returns the records matching f, keeping their input order.
func Filter(records []*domain.JobPosting, f domain.JobFilter) []*domain.JobPosting {
	match := NewPredicate(f)
	out := make([]*domain.JobPosting, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Window orders matched by s and returns at most limit records after offset.
// The sort is stable: records with equal keys keep their input order in both
// directions. The input slice is not modified.
func Window(matched []*domain.JobPosting, s domain.Sort, offset, limit int) []*domain.JobPosting {
	sorted := slices.Clone(matched)
	slices.SortStableFunc(sorted, func(a, b *domain.JobPosting) int {
		c := Compare(a, b, s.Field)
		if s.Order == domain.SortDesc {
			return -c
		}
		return c
	})
	if offset >= len(sorted) {
		return []*domain.JobPosting{}
	}
	end := len(sorted)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return sorted[offset:end]
}

// Compare orders two postings by field in ascending order. A missing salary
// range sorts after every present one.
func Compare(a, b *domain.JobPosting, field domain.SortField) int {
	switch field {
	case domain.SortByID:
		return strings.Compare(a.ID, b.ID)
	case domain.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case domain.SortByCompanyName:
		return strings.Compare(a.CompanyName, b.CompanyName)
	case domain.SortByLocation:
		return strings.Compare(a.Location, b.Location)
	case domain.SortByJobType:
		return strings.Compare(string(a.JobType), string(b.JobType))
	case domain.SortBySalaryRange:
		switch {
		case a.SalaryRange == nil && b.SalaryRange == nil:
			return 0
		case a.SalaryRange == nil:
			return 1
		case b.SalaryRange == nil:
			return -1
		}
		return strings.Compare(*a.SalaryRange, *b.SalaryRange)
	case domain.SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case domain.SortByRequirements:
		return strings.Compare(a.Requirements, b.Requirements)
	case domain.SortByResponsibilities:
		return strings.Compare(a.Responsibilities, b.Responsibilities)
	case domain.SortByApplicationDeadline:
		return a.ApplicationDeadline.Compare(b.ApplicationDeadline.Time)
	case domain.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case domain.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}
