package domain

// JobPatch is a partial update. A nil field is left untouched; a SalaryRange
// pointing at an empty string clears the salary.
type JobPatch struct {
	Title               *string  `json:"title,omitempty"`
	CompanyName         *string  `json:"companyName,omitempty"`
	Location            *string  `json:"location,omitempty"`
	JobType             *JobType `json:"jobType,omitempty"`
	SalaryRange         *string  `json:"salaryRange,omitempty"`
	Description         *string  `json:"description,omitempty"`
	Requirements        *string  `json:"requirements,omitempty"`
	Responsibilities    *string  `json:"responsibilities,omitempty"`
	ApplicationDeadline *Date    `json:"applicationDeadline,omitempty"`
}

// IsEmpty reports whether the patch supplies no field at all.
func (p *JobPatch) IsEmpty() bool {
	return p.Title == nil && p.CompanyName == nil && p.Location == nil &&
		p.JobType == nil && p.SalaryRange == nil && p.Description == nil &&
		p.Requirements == nil && p.Responsibilities == nil && p.ApplicationDeadline == nil
}

// Validate applies the creation bounds to every supplied field.
func (p *JobPatch) Validate() error {
	if p.IsEmpty() {
		return NewValidationError("body", "no fields to update")
	}
	verr := &ValidationError{}
	if p.Title != nil {
		checkShortText(verr, "title", *p.Title)
	}
	if p.CompanyName != nil {
		checkShortText(verr, "companyName", *p.CompanyName)
	}
	if p.Location != nil {
		checkShortText(verr, "location", *p.Location)
	}
	if p.JobType != nil {
		checkJobType(verr, *p.JobType)
	}
	checkSalaryRange(verr, p.SalaryRange)
	if p.Description != nil {
		checkLongText(verr, "description", *p.Description)
	}
	if p.Requirements != nil {
		checkLongText(verr, "requirements", *p.Requirements)
	}
	if p.Responsibilities != nil {
		checkLongText(verr, "responsibilities", *p.Responsibilities)
	}
	if p.ApplicationDeadline != nil && p.ApplicationDeadline.IsZero() {
		verr.Add("applicationDeadline", "is required")
	}
	return verr.OrNil()
}

// ApplyTo copies the supplied fields onto j. Timestamps are not touched.
func (p *JobPatch) ApplyTo(j *JobPosting) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.CompanyName != nil {
		j.CompanyName = *p.CompanyName
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.SalaryRange != nil {
		if *p.SalaryRange == "" {
			j.SalaryRange = nil
		} else {
			s := *p.SalaryRange
			j.SalaryRange = &s
		}
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Requirements != nil {
		j.Requirements = *p.Requirements
	}
	if p.Responsibilities != nil {
		j.Responsibilities = *p.Responsibilities
	}
	if p.ApplicationDeadline != nil {
		j.ApplicationDeadline = *p.ApplicationDeadline
	}
}
