package domain

// SortOrder is the direction of a listing sort.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SortField names a JobPosting attribute a listing can be ordered by.
type SortField string

const (
	SortByID                  SortField = "id"
	SortByTitle               SortField = "title"
	SortByCompanyName         SortField = "companyName"
	SortByLocation            SortField = "location"
	SortByJobType             SortField = "jobType"
	SortBySalaryRange         SortField = "salaryRange"
	SortByDescription         SortField = "description"
	SortByRequirements        SortField = "requirements"
	SortByResponsibilities    SortField = "responsibilities"
	SortByApplicationDeadline SortField = "applicationDeadline"
	SortByCreatedAt           SortField = "createdAt"
	SortByUpdatedAt           SortField = "updatedAt"
)

var sortColumns = map[SortField]string{
	SortByID:                  "id",
	SortByTitle:               "title",
	SortByCompanyName:         "company_name",
	SortByLocation:            "location",
	SortByJobType:             "job_type",
	SortBySalaryRange:         "salary_range",
	SortByDescription:         "description",
	SortByRequirements:        "requirements",
	SortByResponsibilities:    "responsibilities",
	SortByApplicationDeadline: "application_deadline",
	SortByCreatedAt:           "created_at",
	SortByUpdatedAt:           "updated_at",
}

// Valid reports whether f is an attribute of JobPosting.
func (f SortField) Valid() bool {
	_, ok := sortColumns[f]
	return ok
}

// Column is the relational column backing f. It is empty for unknown fields.
func (f SortField) Column() string {
	return sortColumns[f]
}

// Sort is a validated ordering.
type Sort struct {
	Field SortField
	Order SortOrder
}

// FilterCriteria is what a caller may ask for when listing postings.
// Zero values and nil pointers mean "not supplied".
type FilterCriteria struct {
	Title     string
	Location  string
	JobType   JobType
	SalaryMin *int64
	SalaryMax *int64
	Page      *int
	Limit     *int
	SortBy    string
	SortOrder string
}

// JobFilter is the store-facing part of a listing request: the predicate
// without ordering or windowing.
type JobFilter struct {
	Title     string
	Location  string
	JobType   JobType
	SalaryMin *int64
	SalaryMax *int64
}

// HasSalaryBound reports whether either salary bound was supplied.
func (f JobFilter) HasSalaryBound() bool {
	return f.SalaryMin != nil || f.SalaryMax != nil
}

// JobQuery is a normalized, validated listing request.
type JobQuery struct {
	Filter JobFilter
	Sort   Sort
	Page   int
	Limit  int
}

// Offset is the number of matching records skipped before the page.
func (q JobQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// JobPage is one window of a listing plus the size of the whole filtered set.
type JobPage struct {
	Data       []*JobPosting `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// JobStats summarizes the stored postings.
type JobStats struct {
	Total     int             `json:"total"`
	ByJobType map[JobType]int `json:"byJobType"`
}
