package interpreter

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/cuongbtq/jobconnect/internal/api/domain"
	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/internal/command"
)

// ValidatedCommand can only be produced by Gate.Authorize, so the executor
// never sees a command that skipped ownership and field checks.
type ValidatedCommand struct {
	command      command.Command
	target       *model.JobPosting
	actingUserID int64
}

func (v ValidatedCommand) Command() command.Command {
	return v.command
}

// Gate checks field rules and posting ownership before any mutation
type Gate struct {
	repo PostingRepository
}

func NewGate(repo PostingRepository) *Gate {
	return &Gate{repo: repo}
}

// Authorize validates cmd for actingUserID. Create needs only valid fields;
// edit and delete also need the target to exist and belong to the user.
// NoCommand and Malformed pass through untouched.
func (g *Gate) Authorize(ctx context.Context, cmd command.Command, actingUserID int64) (ValidatedCommand, error) {
	validated := ValidatedCommand{command: cmd, actingUserID: actingUserID}

	switch c := cmd.(type) {
	case command.CreateJob:
		if err := validateFields(c.JobFields); err != nil {
			return ValidatedCommand{}, err
		}
		return validated, nil

	case command.EditJob:
		if err := validateFields(c.JobFields); err != nil {
			return ValidatedCommand{}, err
		}
		target, err := g.ownedPosting(ctx, c.JobID, actingUserID)
		if err != nil {
			return ValidatedCommand{}, err
		}
		validated.target = target
		return validated, nil

	case command.DeleteJob:
		target, err := g.ownedPosting(ctx, c.JobID, actingUserID)
		if err != nil {
			return ValidatedCommand{}, err
		}
		validated.target = target
		return validated, nil

	case command.NoCommand, command.Malformed:
		return validated, nil

	default:
		return ValidatedCommand{}, fmt.Errorf("unsupported command %T", cmd)
	}
}

func (g *Gate) ownedPosting(ctx context.Context, id, actingUserID int64) (*model.JobPosting, error) {
	posting, err := g.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostingNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTargetNotFound, id)
		}
		return nil, fmt.Errorf("failed to look up posting %d: %w", id, err)
	}

	if posting.OwnerUserID != actingUserID {
		return nil, fmt.Errorf("%w: id %d", ErrNotOwner, id)
	}

	return posting, nil
}

// validateFields requires title, company and location and enforces the
// column limits. Description and salary may be empty.
func validateFields(f command.JobFields) error {
	var problems []string

	required := []struct {
		name  string
		value string
		max   int
	}{
		{"title", f.Title, domain.MaxTitleLength},
		{"company", f.Company, domain.MaxCompanyLength},
		{"location", f.Location, domain.MaxLocationLength},
	}
	for _, r := range required {
		switch {
		case r.value == "":
			problems = append(problems, r.name+" is required")
		case utf8.RuneCountInString(r.value) > r.max:
			problems = append(problems, fmt.Sprintf("%s must be at most %d characters", r.name, r.max))
		}
	}

	if utf8.RuneCountInString(f.Salary) > domain.MaxSalaryLength {
		problems = append(problems, fmt.Sprintf("salary must be at most %d characters", domain.MaxSalaryLength))
	}

	if len(problems) > 0 {
		return &InvalidFieldsError{Problems: problems}
	}
	return nil
}
