package model

import "time"

// JobPosting is a row of the job_postings table
type JobPosting struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Company     string    `db:"company"`
	Location    string    `db:"location"`
	Salary      string    `db:"salary"`
	Category    string    `db:"category"`
	OwnerUserID int64     `db:"owner_user_id"`
	PostedAt    time.Time `db:"posted_at"`
}
