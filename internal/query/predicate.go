package query

import (
	"strings"

	"job-board/internal/domain"
)

// Predicate selects postings.
type Predicate func(*domain.JobPosting) bool

// And returns a predicate matching only records that both p and other match.
func (p Predicate) And(other Predicate) Predicate {
	return func(j *domain.JobPosting) bool {
		return p(j) && other(j)
	}
}

// Everything matches every posting.
func Everything(*domain.JobPosting) bool { return true }

// NewPredicate builds the conjunction of every filter supplied in f.
// Empty strings and nil bounds impose no constraint.
func NewPredicate(f domain.JobFilter) Predicate {
	p := Predicate(Everything)
	if f.Title != "" {
		p = p.And(containsFold(f.Title, func(j *domain.JobPosting) string { return j.Title }))
	}
	if f.Location != "" {
		p = p.And(containsFold(f.Location, func(j *domain.JobPosting) string { return j.Location }))
	}
	if f.JobType != "" {
		want := f.JobType
		p = p.And(func(j *domain.JobPosting) bool { return j.JobType == want })
	}
	if f.HasSalaryBound() {
		atLeast, atMost := f.SalaryMin, f.SalaryMax
		p = p.And(func(j *domain.JobPosting) bool { return MatchSalary(j.SalaryRange, atLeast, atMost) })
	}
	return p
}

func containsFold(needle string, field func(*domain.JobPosting) string) Predicate {
	needle = strings.ToLower(needle)
	return func(j *domain.JobPosting) bool {
		return strings.Contains(strings.ToLower(field(j)), needle)
	}
}
