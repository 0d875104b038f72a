package domain

import (
	"errors"
)

// User roles. Role is derived state: creating a posting makes the owner an
// employer.
const (
	RoleJobSeeker = "job_seeker"
	RoleEmployer  = "employer"
)

// Column limits of the job_postings table
const (
	MaxTitleLength    = 100
	MaxCompanyLength  = 100
	MaxLocationLength = 100
	MaxSalaryLength   = 50
)

var (
	ErrPostingNotFound = errors.New("job posting not found")
	ErrUserNotFound    = errors.New("user not found")
)
