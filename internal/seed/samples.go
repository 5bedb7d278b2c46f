// Package seed loads the sample postings used for demos and local development.
package seed

import (
	"time"

	"job-board/internal/domain"
)

type sample struct {
	title, company, location string
	jobType                  domain.JobType
	salary                   string
	description              string
	requirements             string
	responsibilities         string
	deadline                 domain.Date
}

var samples = []sample{
	{
		title:            "Senior Full Stack Developer",
		company:          "TechCorp Inc.",
		location:         "San Francisco, CA",
		jobType:          domain.JobTypeFullTime,
		salary:           "$120,000 - $160,000",
		description:      "We are looking for a Senior Full Stack Developer to join our team. You will develop and maintain web applications using modern technologies.",
		requirements:     "• 5+ years of experience with React and Node.js\n• Experience with TypeScript\n• Knowledge of database design\n• Strong problem-solving skills",
		responsibilities: "• Develop and maintain web applications\n• Collaborate with design and product teams\n• Write clean, maintainable code\n• Participate in code reviews",
		deadline:         domain.NewDate(2024, time.December, 31),
	},
	{
		title:            "Frontend Developer",
		company:          "StartupXYZ",
		location:         "Remote",
		jobType:          domain.JobTypeFullTime,
		salary:           "$80,000 - $110,000",
		description:      "Join our growing startup as a Frontend Developer and help build great user experiences.",
		requirements:     "• 3+ years of React experience\n• Proficiency in CSS and JavaScript\n• Experience with modern build tools\n• Strong attention to detail",
		responsibilities: "• Build responsive user interfaces\n• Optimize application performance\n• Collaborate with UX designers\n• Implement new features",
		deadline:         domain.NewDate(2024, time.November, 30),
	},
	{
		title:            "Backend Engineer",
		company:          "DataFlow Solutions",
		location:         "New York, NY",
		jobType:          domain.JobTypeFullTime,
		salary:           "$100,000 - $140,000",
		description:      "We need a Backend Engineer to help scale our data processing platform.",
		requirements:     "• Strong experience with Node.js or Python\n• Database design and optimization\n• API design and development\n• Cloud platforms experience",
		responsibilities: "• Design and implement APIs\n• Optimize database performance\n• Ensure system scalability\n• Monitor and maintain services",
		deadline:         domain.NewDate(2024, time.October, 15),
	},
	{
		title:            "UI/UX Designer",
		company:          "Creative Agency",
		location:         "Los Angeles, CA",
		jobType:          domain.JobTypeContract,
		salary:           "$60 - $80 per hour",
		description:      "Looking for a talented UI/UX Designer for a 6-month contract project.",
		requirements:     "• 4+ years of UI/UX design experience\n• Proficiency in Figma and Adobe Creative Suite\n• Strong portfolio\n• Experience with user research",
		responsibilities: "• Create wireframes and prototypes\n• Design user interfaces\n• Conduct user research\n• Collaborate with development team",
		deadline:         domain.NewDate(2024, time.September, 30),
	},
	{
		title:            "DevOps Engineer",
		company:          "CloudTech",
		location:         "Seattle, WA",
		jobType:          domain.JobTypeFullTime,
		salary:           "$110,000 - $150,000",
		description:      "Join our DevOps team to help automate and scale our cloud infrastructure.",
		requirements:     "• Experience with AWS/Azure/GCP\n• Kubernetes and Docker expertise\n• CI/CD pipeline development\n• Infrastructure as Code",
		responsibilities: "• Manage cloud infrastructure\n• Automate deployment processes\n• Monitor system performance\n• Implement security best practices",
		deadline:         domain.NewDate(2024, time.November, 15),
	},
	{
		title:            "Software Engineering Intern",
		company:          "Innovation Labs",
		location:         "Boston, MA",
		jobType:          domain.JobTypeInternship,
		salary:           "$25 - $30 per hour",
		description:      "Summer internship opportunity for computer science students.",
		requirements:     "• Currently pursuing CS degree\n• Basic programming skills\n• Enthusiasm to learn\n• Good communication skills",
		responsibilities: "• Work on real projects\n• Learn from senior developers\n• Participate in team meetings\n• Contribute to codebase",
		deadline:         domain.NewDate(2025, time.March, 15),
	},
}

// Postings returns fresh copies of the sample postings, without ids or
// timestamps.
func Postings() []*domain.JobPosting {
	out := make([]*domain.JobPosting, 0, len(samples))
	for _, s := range samples {
		salary := s.salary
		out = append(out, &domain.JobPosting{
			Title:               s.title,
			CompanyName:         s.company,
			Location:            s.location,
			JobType:             s.jobType,
			SalaryRange:         &salary,
			Description:         s.description,
			Requirements:        s.requirements,
			Responsibilities:    s.responsibilities,
			ApplicationDeadline: s.deadline,
		})
	}
	return out
}
