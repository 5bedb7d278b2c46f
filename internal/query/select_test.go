package query

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"job-board/internal/domain"
)

func fixture(id, title, location string, jobType domain.JobType, salary *string, created time.Time) *domain.JobPosting {
	return &domain.JobPosting{
		ID:          id,
		Title:       title,
		Location:    location,
		JobType:     jobType,
		SalaryRange: salary,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func records() []*domain.JobPosting {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.JobPosting{
		fixture("a", "Senior Full Stack Developer", "San Francisco, CA", domain.JobTypeFullTime, strPtr("$120,000 - $160,000"), base),
		fixture("b", "Frontend Developer", "Remote", domain.JobTypeFullTime, strPtr("$80,000 - $110,000"), base.Add(time.Hour)),
		fixture("c", "Backend Engineer", "New York, NY", domain.JobTypeFullTime, strPtr("$100,000 - $140,000"), base.Add(2*time.Hour)),
		fixture("d", "UI/UX Designer", "Los Angeles, CA", domain.JobTypeContract, strPtr("$60 - $80 per hour"), base.Add(3*time.Hour)),
		fixture("e", "DevOps Engineer", "Seattle, WA", domain.JobTypeFullTime, nil, base.Add(4*time.Hour)),
		fixture("f", "Software Engineering Intern", "Boston, MA", domain.JobTypeInternship, strPtr("$25 - $30 per hour"), base.Add(5*time.Hour)),
	}
}

func ids(js []*domain.JobPosting) string {
	out := make([]string, len(js))
	for i, j := range js {
		out[i] = j.ID
	}
	return strings.Join(out, ",")
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.JobFilter
		want   string
	}{
		{"no filters", domain.JobFilter{}, "a,b,c,d,e,f"},
		{"title case-insensitive", domain.JobFilter{Title: "DEVELOPER"}, "a,b"},
		{"location substring", domain.JobFilter{Location: ", ca"}, "a,d"},
		{"job type exact", domain.JobFilter{JobType: domain.JobTypeFullTime}, "a,b,c,e"},
		{"conjunctive", domain.JobFilter{Title: "engineer", JobType: domain.JobTypeFullTime}, "c,e"},
		{"salary min excludes missing", domain.JobFilter{SalaryMin: intPtr(100000)}, "a,c"},
		{"salary max", domain.JobFilter{SalaryMax: intPtr(100)}, "d,f"},
		{"salary both", domain.JobFilter{SalaryMin: intPtr(80000), SalaryMax: intPtr(140000)}, "b,c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Filter(records(), tt.filter)); got != tt.want {
				t.Errorf("Filter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTitleFilterMatchesLowercasedContainment(t *testing.T) {
	titles := []string{"Go Developer", "GOLANG", "Gopher", "Rust", "ago", "G O"}
	for _, needle := range []string{"go", "GO", "o", "x", "lang"} {
		for _, title := range titles {
			j := &domain.JobPosting{Title: title}
			got := NewPredicate(domain.JobFilter{Title: needle})(j)
			want := strings.Contains(strings.ToLower(title), strings.ToLower(needle))
			if got != want {
				t.Errorf("title %q needle %q: got %v, want %v", title, needle, got, want)
			}
		}
	}
}

func TestWindowSortAndPaging(t *testing.T) {
	all := records()
	desc := Window(all, domain.Sort{Field: domain.SortByCreatedAt, Order: domain.SortDesc}, 0, 3)
	if got := ids(desc); got != "f,e,d" {
		t.Errorf("createdAt DESC page 1 = %s", got)
	}
	asc := Window(all, domain.Sort{Field: domain.SortByTitle, Order: domain.SortAsc}, 2, 2)
	if got := ids(asc); got != "b,a" {
		t.Errorf("title ASC offset 2 = %s", got)
	}
	if got := Window(all, domain.Sort{Field: domain.SortByTitle, Order: domain.SortAsc}, 10, 2); len(got) != 0 {
		t.Errorf("window past end = %s", ids(got))
	}
	if ids(all) != "a,b,c,d,e,f" {
		t.Errorf("Window modified its input: %s", ids(all))
	}
}

func TestWindowStableOnTies(t *testing.T) {
	var all []*domain.JobPosting
	for i := 0; i < 5; i++ {
		all = append(all, fixture(fmt.Sprint(i), "Same", "", domain.JobTypeFullTime, nil, time.Time{}))
	}
	for _, order := range []domain.SortOrder{domain.SortAsc, domain.SortDesc} {
		got := ids(Window(all, domain.Sort{Field: domain.SortByTitle, Order: order}, 0, 5))
		if got != "0,1,2,3,4" {
			t.Errorf("%s: ties reordered: %s", order, got)
		}
	}
}

func TestCompareSalaryRangeMissingLast(t *testing.T) {
	withSalary := &domain.JobPosting{SalaryRange: strPtr("$1")}
	without := &domain.JobPosting{}
	if Compare(without, withSalary, domain.SortBySalaryRange) <= 0 {
		t.Errorf("missing salary should sort after present salary")
	}
}
