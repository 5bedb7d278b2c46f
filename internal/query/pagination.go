package query

import (
	"fmt"
	"math"
	"strings"

	"job-board/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps the computed offset far from integer overflow.
	MaxPage = math.MaxInt32
)

var defaultSort = domain.Sort{Field: domain.SortByCreatedAt, Order: domain.SortDesc}

// Normalize applies defaults to c and rejects out-of-range values. It never
// touches the store, so invalid requests fail before any query is issued.
func Normalize(c domain.FilterCriteria) (domain.JobQuery, error) {
	verr := &domain.ValidationError{}
	q := domain.JobQuery{Page: DefaultPage, Limit: DefaultLimit, Sort: defaultSort}

	if c.Page != nil {
		switch {
		case *c.Page < 1:
			verr.Add("page", "must be at least 1")
		case *c.Page > MaxPage:
			verr.Addf("page", "must be at most %d", MaxPage)
		default:
			q.Page = *c.Page
		}
	}
	if c.Limit != nil {
		if *c.Limit < 1 || *c.Limit > MaxLimit {
			verr.Addf("limit", "must be between 1 and %d", MaxLimit)
		} else {
			q.Limit = *c.Limit
		}
	}
	if c.JobType != "" && !c.JobType.Valid() {
		verr.Add("jobType", "must be one of full-time, part-time, contract, internship")
	}
	if c.SalaryMin != nil && *c.SalaryMin < 0 {
		verr.Add("salaryMin", "must not be negative")
	}
	if c.SalaryMax != nil && *c.SalaryMax < 0 {
		verr.Add("salaryMax", "must not be negative")
	}
	if c.SortBy != "" {
		if f := domain.SortField(c.SortBy); f.Valid() {
			q.Sort.Field = f
		} else {
			verr.Add("sortBy", fmt.Sprintf("unknown sort field %q", c.SortBy))
		}
	}
	if c.SortOrder != "" {
		switch o := domain.SortOrder(strings.ToUpper(c.SortOrder)); o {
		case domain.SortAsc, domain.SortDesc:
			q.Sort.Order = o
		default:
			verr.Add("sortOrder", "must be ASC or DESC")
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.JobQuery{}, err
	}

	q.Filter = domain.JobFilter{
		Title:     c.Title,
		Location:  c.Location,
		JobType:   c.JobType,
		SalaryMin: c.SalaryMin,
		SalaryMax: c.SalaryMax,
	}
	return q, nil
}

// TotalPages is ceil(total/limit), and 0 for an empty result.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Package assembles the response for one page. total must be the size of
// the whole filtered set, not of data.
func Package(data []*domain.JobPosting, total int, q domain.JobQuery) *domain.JobPage {
	if data == nil {
		data = []*domain.JobPosting{}
	}
	return &domain.JobPage{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}
}
