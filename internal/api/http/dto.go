package http

import (
	"net/url"
	"strconv"

	"job-board/internal/domain"
)

// CreateJobRequest is the Data Transfer Object for creating a posting.
type CreateJobRequest struct {
	Title               string  `json:"title" validate:"required,max=255"`
	CompanyName         string  `json:"companyName" validate:"required,max=255"`
	Location            string  `json:"location" validate:"required,max=255"`
	JobType             string  `json:"jobType" validate:"required,jobtype"`
	SalaryRange         *string `json:"salaryRange" validate:"omitempty,max=100"`
	Description         string  `json:"description" validate:"required,min=10"`
	Requirements        string  `json:"requirements" validate:"required,min=10"`
	Responsibilities    string  `json:"responsibilities" validate:"required,min=10"`
	ApplicationDeadline string  `json:"applicationDeadline" validate:"required,isodate"`
}

// ToDomainJob converts a CreateJobRequest DTO to a domain.JobPosting.
func (r *CreateJobRequest) ToDomainJob() (*domain.JobPosting, error) {
	deadline, err := domain.ParseDate(r.ApplicationDeadline)
	if err != nil {
		return nil, domain.NewValidationError("applicationDeadline", err.Error())
	}
	return &domain.JobPosting{
		Title:               r.Title,
		CompanyName:         r.CompanyName,
		Location:            r.Location,
		JobType:             domain.JobType(r.JobType),
		SalaryRange:         r.SalaryRange,
		Description:         r.Description,
		Requirements:        r.Requirements,
		Responsibilities:    r.Responsibilities,
		ApplicationDeadline: deadline,
	}, nil
}

// UpdateJobRequest is the Data Transfer Object for a partial update. Absent
// fields are left untouched; an empty salaryRange clears the salary.
type UpdateJobRequest struct {
	Title               *string `json:"title" validate:"omitempty,max=255"`
	CompanyName         *string `json:"companyName" validate:"omitempty,max=255"`
	Location            *string `json:"location" validate:"omitempty,max=255"`
	JobType             *string `json:"jobType" validate:"omitempty,jobtype"`
	SalaryRange         *string `json:"salaryRange" validate:"omitempty,max=100"`
	Description         *string `json:"description" validate:"omitempty,min=10"`
	Requirements        *string `json:"requirements" validate:"omitempty,min=10"`
	Responsibilities    *string `json:"responsibilities" validate:"omitempty,min=10"`
	ApplicationDeadline *string `json:"applicationDeadline" validate:"omitempty,isodate"`
}

// ToDomainPatch converts an UpdateJobRequest DTO to a domain.JobPatch.
func (r *UpdateJobRequest) ToDomainPatch() (*domain.JobPatch, error) {
	patch := &domain.JobPatch{
		Title:            r.Title,
		CompanyName:      r.CompanyName,
		Location:         r.Location,
		SalaryRange:      r.SalaryRange,
		Description:      r.Description,
		Requirements:     r.Requirements,
		Responsibilities: r.Responsibilities,
	}
	if r.JobType != nil {
		t := domain.JobType(*r.JobType)
		patch.JobType = &t
	}
	if r.ApplicationDeadline != nil {
		d, err := domain.ParseDate(*r.ApplicationDeadline)
		if err != nil {
			return nil, domain.NewValidationError("applicationDeadline", err.Error())
		}
		patch.ApplicationDeadline = &d
	}
	return patch, nil
}

// parseListQuery reads listing criteria from the query string. Empty values
// count as absent. Range checks are left to the query engine; only values that
// are not numbers at all are rejected here.
func parseListQuery(q url.Values) (domain.FilterCriteria, error) {
	c := domain.FilterCriteria{
		Title:     q.Get("title"),
		Location:  q.Get("location"),
		JobType:   domain.JobType(q.Get("jobType")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	verr := &domain.ValidationError{}

	parseInt64 := func(name string) *int64 {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add(name, "must be an integer")
			return nil
		}
		return &v
	}
	parseInt := func(name string) *int {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add(name, "must be an integer")
			return nil
		}
		return &v
	}

	c.SalaryMin = parseInt64("salaryMin")
	c.SalaryMax = parseInt64("salaryMax")
	c.Page = parseInt("page")
	c.Limit = parseInt("limit")
	return c, verr.OrNil()
}
