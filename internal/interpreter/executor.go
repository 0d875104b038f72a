package interpreter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cuongbtq/jobconnect/internal/api/domain"
	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/internal/command"
	"github.com/cuongbtq/jobconnect/shared/events"
)

// Executor applies authorized commands to the posting repository
type Executor struct {
	repo      PostingRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewExecutor creates an executor; publisher may be nil
func NewExecutor(repo PostingRepository, publisher EventPublisher, logger *slog.Logger) *Executor {
	return &Executor{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute performs at most one posting mutation and annotates reply with the
// result. Only the create path additionally updates the acting user's role.
func (e *Executor) Execute(ctx context.Context, v ValidatedCommand, reply string) Outcome {
	switch c := v.command.(type) {
	case command.CreateJob:
		return e.create(ctx, c, v.actingUserID, reply)
	case command.EditJob:
		return e.edit(ctx, c, v, reply)
	case command.DeleteJob:
		return e.delete(ctx, c, v, reply)
	case command.NoCommand:
		return Outcome{Success: true, Message: c.Reply}
	case command.Malformed:
		return failed(c.Reply, markerUnparsedDelete)
	default:
		e.logger.Error("Unsupported command reached executor", slog.String("kind", v.command.Kind()))
		return failed(reply, markerFailed)
	}
}

func (e *Executor) create(ctx context.Context, c command.CreateJob, actingUserID int64, reply string) Outcome {
	posting := &model.JobPosting{
		Title:       c.Title,
		Description: c.Description,
		Company:     c.Company,
		Location:    c.Location,
		Salary:      c.Salary,
		OwnerUserID: actingUserID,
	}

	if err := e.repo.Insert(ctx, posting); err != nil {
		e.logger.Error("Failed to create job posting",
			slog.Int64("user_id", actingUserID),
			slog.Any("error", err),
		)
		return failed(reply, markerFailed)
	}

	if err := e.repo.SetRole(ctx, actingUserID, domain.RoleEmployer); err != nil {
		e.logger.Warn("Failed to promote user to employer",
			slog.Int64("user_id", actingUserID),
			slog.Any("error", err),
		)
	}

	e.logger.Info("Job posting created",
		slog.Int64("posting_id", posting.ID),
		slog.Int64("user_id", actingUserID),
	)
	e.publish(ctx, events.PostingCreated, posting.ID, actingUserID)

	return succeeded(reply, markerCreated)
}

func (e *Executor) edit(ctx context.Context, c command.EditJob, v ValidatedCommand, reply string) Outcome {
	posting := *v.target
	posting.Title = c.Title
	posting.Description = c.Description
	posting.Company = c.Company
	posting.Location = c.Location
	posting.Salary = c.Salary

	if err := e.repo.Update(ctx, &posting); err != nil {
		return e.mutationFailed(err, "update", posting.ID, v.actingUserID, reply)
	}

	e.logger.Info("Job posting updated",
		slog.Int64("posting_id", posting.ID),
		slog.Int64("user_id", v.actingUserID),
	)
	e.publish(ctx, events.PostingUpdated, posting.ID, v.actingUserID)

	return succeeded(reply, markerUpdated)
}

func (e *Executor) delete(ctx context.Context, c command.DeleteJob, v ValidatedCommand, reply string) Outcome {
	if err := e.repo.Delete(ctx, v.target.ID); err != nil {
		return e.mutationFailed(err, "delete", c.JobID, v.actingUserID, reply)
	}

	e.logger.Info("Job posting deleted",
		slog.Int64("posting_id", c.JobID),
		slog.Int64("user_id", v.actingUserID),
	)
	e.publish(ctx, events.PostingDeleted, c.JobID, v.actingUserID)

	return succeeded(reply, markerDeleted)
}

// mutationFailed maps a posting that vanished between lookup and mutation to
// the shared no-permission marker.
func (e *Executor) mutationFailed(err error, op string, postingID, actingUserID int64, reply string) Outcome {
	if errors.Is(err, domain.ErrPostingNotFound) {
		return failed(reply, markerNoPermission)
	}

	e.logger.Error("Failed to "+op+" job posting",
		slog.Int64("posting_id", postingID),
		slog.Int64("user_id", actingUserID),
		slog.Any("error", err),
	)
	return failed(reply, markerFailed)
}

func (e *Executor) publish(ctx context.Context, eventType events.Type, postingID, actingUserID int64) {
	if e.publisher == nil {
		return
	}

	event := events.NewPostingEvent(eventType, postingID, actingUserID)
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish posting event",
			slog.String("event_type", string(eventType)),
			slog.Int64("posting_id", postingID),
			slog.Any("error", err),
		)
	}
}
