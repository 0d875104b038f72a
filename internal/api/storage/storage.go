package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/jobconnect/internal/api/domain"
	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

const postingColumns = `
	id, title, description, company, location,
	salary, category, owner_user_id, posted_at
`

// Storage is the PostgreSQL posting repository
type Storage struct {
	pg *postgresql.Client
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		pg: pg,
		db: pg.GetDB(),
	}
}

// Insert stores a new posting and fills in its generated ID and PostedAt
func (s *Storage) Insert(ctx context.Context, posting *model.JobPosting) error {
	if posting.PostedAt.IsZero() {
		posting.PostedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO job_postings (
			title, description, company, location,
			salary, category, owner_user_id, posted_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
		RETURNING id
	`

	err := s.db.QueryRowxContext(
		ctx,
		query,
		posting.Title,
		posting.Description,
		posting.Company,
		posting.Location,
		posting.Salary,
		posting.Category,
		posting.OwnerUserID,
		posting.PostedAt,
	).Scan(&posting.ID)
	if err != nil {
		return fmt.Errorf("failed to insert job posting: %w", err)
	}

	return nil
}

func (s *Storage) FindByID(ctx context.Context, id int64) (*model.JobPosting, error) {
	var posting model.JobPosting
	query := `SELECT ` + postingColumns + ` FROM job_postings WHERE id = $1`

	err := s.db.GetContext(ctx, &posting, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostingNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	return &posting, nil
}

// Update overwrites the five mutable fields in a single statement
func (s *Storage) Update(ctx context.Context, posting *model.JobPosting) error {
	query := `
		UPDATE job_postings
		SET title = $1,
		    description = $2,
		    company = $3,
		    location = $4,
		    salary = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		posting.Title,
		posting.Description,
		posting.Company,
		posting.Location,
		posting.Salary,
		posting.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}

	return expectOneRow(result, domain.ErrPostingNotFound)
}

// Delete removes the posting together with the applications submitted to it
func (s *Storage) Delete(ctx context.Context, id int64) error {
	return s.pg.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE job_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete applications: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete job posting: %w", err)
		}

		return expectOneRow(result, domain.ErrPostingNotFound)
	})
}

func (s *Storage) SetRole(ctx context.Context, userID int64, role string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}

	return expectOneRow(result, domain.ErrUserNotFound)
}

type PostingFilter struct {
	OwnerUserID int64
	PageSize    int
	Cursor      *PostingCursor
}

type PostingCursor struct {
	PostedAt time.Time
	ID       int64
}

// ListPostings returns up to PageSize+1 postings, newest first, so the caller
// can tell whether another page exists.
func (s *Storage) ListPostings(ctx context.Context, filter PostingFilter) ([]model.JobPosting, error) {
	query := `SELECT ` + postingColumns + ` FROM job_postings WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.OwnerUserID != 0 {
		query += fmt.Sprintf(" AND owner_user_id = $%d", argIdx)
		args = append(args, filter.OwnerUserID)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (posted_at, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.PostedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY posted_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var postings []model.JobPosting
	if err := s.db.SelectContext(ctx, &postings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}

	return postings, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
