package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// JobType is the employment type of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// JobTypes lists every accepted job type in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// Valid reports whether t is one of the known job types.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

const (
	MaxShortTextLen   = 255
	MaxSalaryRangeLen = 100
	MinLongTextLen    = 10
)

// JobPosting is a single job listing.
type JobPosting struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	CompanyName         string    `json:"companyName"`
	Location            string    `json:"location"`
	JobType             JobType   `json:"jobType"`
	SalaryRange         *string   `json:"salaryRange,omitempty"` // free text, e.g. "$80,000 - $120,000"
	Description         string    `json:"description"`
	Requirements        string    `json:"requirements"`
	Responsibilities    string    `json:"responsibilities"`
	ApplicationDeadline Date      `json:"applicationDeadline"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// SalaryBounds are the numeric ends extracted from a free-text salary range.
// A nil side could not be parsed.
type SalaryBounds struct {
	Min *int64
	Max *int64
}

// Validate checks the user-supplied attributes of the posting.
func (j *JobPosting) Validate() error {
	verr := &ValidationError{}
	checkShortText(verr, "title", j.Title)
	checkShortText(verr, "companyName", j.CompanyName)
	checkShortText(verr, "location", j.Location)
	checkJobType(verr, j.JobType)
	checkSalaryRange(verr, j.SalaryRange)
	checkLongText(verr, "description", j.Description)
	checkLongText(verr, "requirements", j.Requirements)
	checkLongText(verr, "responsibilities", j.Responsibilities)
	if j.ApplicationDeadline.IsZero() {
		verr.Add("applicationDeadline", "is required")
	}
	return verr.OrNil()
}

// Touch moves UpdatedAt forward to now. If now does not lie after the current
// UpdatedAt, the timestamp is advanced by one microsecond instead.
func (j *JobPosting) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(j.UpdatedAt) {
		now = j.UpdatedAt.Add(time.Microsecond)
	}
	j.UpdatedAt = now
}

// Clone returns a deep copy of the posting.
func (j *JobPosting) Clone() *JobPosting {
	c := *j
	if j.SalaryRange != nil {
		s := *j.SalaryRange
		c.SalaryRange = &s
	}
	return &c
}

func checkShortText(verr *ValidationError, field, v string) {
	if strings.TrimSpace(v) == "" {
		verr.Add(field, "is required")
		return
	}
	if utf8.RuneCountInString(v) > MaxShortTextLen {
		verr.Addf(field, "must be at most %d characters", MaxShortTextLen)
	}
}

func checkLongText(verr *ValidationError, field, v string) {
	if strings.TrimSpace(v) == "" {
		verr.Add(field, "is required")
		return
	}
	if utf8.RuneCountInString(v) < MinLongTextLen {
		verr.Addf(field, "must be at least %d characters", MinLongTextLen)
	}
}

func checkJobType(verr *ValidationError, t JobType) {
	if !t.Valid() {
		verr.Add("jobType", "must be one of full-time, part-time, contract, internship")
	}
}

func checkSalaryRange(verr *ValidationError, s *string) {
	if s != nil && utf8.RuneCountInString(*s) > MaxSalaryRangeLen {
		verr.Addf("salaryRange", "must be at most %d characters", MaxSalaryRangeLen)
	}
}
