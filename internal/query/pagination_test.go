package query

import (
	"errors"
	"testing"

	"job-board/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeDefaults(t *testing.T) {
	q, err := Normalize(domain.FilterCriteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("page/limit = %d/%d, want 1/10", q.Page, q.Limit)
	}
	if q.Sort.Field != domain.SortByCreatedAt || q.Sort.Order != domain.SortDesc {
		t.Errorf("sort = %+v, want createdAt DESC", q.Sort)
	}
	if q.Offset() != 0 {
		t.Errorf("offset = %d, want 0", q.Offset())
	}
}

func TestNormalizeAccepts(t *testing.T) {
	q, err := Normalize(domain.FilterCriteria{
		Title:     "dev",
		JobType:   domain.JobTypeContract,
		SalaryMin: ptr(int64(0)),
		Page:      ptr(3),
		Limit:     ptr(100),
		SortBy:    "title",
		SortOrder: "asc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Offset() != 200 {
		t.Errorf("offset = %d, want 200", q.Offset())
	}
	if q.Sort.Field != domain.SortByTitle || q.Sort.Order != domain.SortAsc {
		t.Errorf("sort = %+v", q.Sort)
	}
	if q.Filter.Title != "dev" || q.Filter.JobType != domain.JobTypeContract || q.Filter.SalaryMin == nil {
		t.Errorf("filter not carried over: %+v", q.Filter)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name  string
		c     domain.FilterCriteria
		field string
	}{
		{"page zero", domain.FilterCriteria{Page: ptr(0)}, "page"},
		{"limit zero", domain.FilterCriteria{Limit: ptr(0)}, "limit"},
		{"limit over max", domain.FilterCriteria{Limit: ptr(101)}, "limit"},
		{"unknown sort field", domain.FilterCriteria{SortBy: "salary"}, "sortBy"},
		{"bad sort order", domain.FilterCriteria{SortOrder: "up"}, "sortOrder"},
		{"unknown job type", domain.FilterCriteria{JobType: "gig"}, "jobType"},
		{"negative salary min", domain.FilterCriteria{SalaryMin: ptr(int64(-1))}, "salaryMin"},
		{"negative salary max", domain.FilterCriteria{SalaryMax: ptr(int64(-5))}, "salaryMax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.c)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Fields[0].Field != tt.field {
				t.Errorf("rejected field = %q, want %q", verr.Fields[0].Field, tt.field)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ total, limit, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 2, 3},
		{4, 2, 2},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPackageNeverNullData(t *testing.T) {
	page := Package(nil, 0, domain.JobQuery{Page: 1, Limit: 10})
	if page.Data == nil || len(page.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %#v", page.Data)
	}
	if page.TotalPages != 0 {
		t.Errorf("totalPages = %d, want 0", page.TotalPages)
	}
}
