// Package interpreter turns a free-text chat message into at most one job
// posting mutation and a human-readable outcome.
package interpreter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cuongbtq/jobconnect/internal/classifier"
	"github.com/cuongbtq/jobconnect/internal/command"
)

// ChatMessage is one inbound message from an authenticated user
type ChatMessage struct {
	Text         string
	ActingUserID int64
}

// Interpreter runs classify, parse, authorize and execute for one message
type Interpreter struct {
	classifier Classifier
	gate       *Gate
	executor   *Executor
	logger     *slog.Logger
}

func New(classifier Classifier, repo PostingRepository, publisher EventPublisher, logger *slog.Logger) *Interpreter {
	return &Interpreter{
		classifier: classifier,
		gate:       NewGate(repo),
		executor:   NewExecutor(repo, publisher, logger),
		logger:     logger,
	}
}

// Interpret never returns an error: every failure becomes an Outcome
func (i *Interpreter) Interpret(ctx context.Context, msg ChatMessage) Outcome {
	reply, err := i.classifier.Classify(ctx, msg.Text)
	if err != nil {
		return i.classifierFailed(msg, err)
	}

	cmd := command.Parse(reply)
	i.logger.Debug("Parsed classifier reply",
		slog.String("kind", cmd.Kind()),
		slog.Int64("user_id", msg.ActingUserID),
	)

	validated, err := i.gate.Authorize(ctx, cmd, msg.ActingUserID)
	if err != nil {
		return i.rejected(cmd, reply, msg.ActingUserID, err)
	}

	return i.executor.Execute(ctx, validated, reply)
}

func (i *Interpreter) classifierFailed(msg ChatMessage, err error) Outcome {
	var badResponse *classifier.BadResponseError
	if errors.As(err, &badResponse) {
		i.logger.Error("Classifier returned a bad response",
			slog.Int64("user_id", msg.ActingUserID),
			slog.String("message", msg.Text),
			slog.Int("status", badResponse.StatusCode),
			slog.Any("error", err),
		)
		return Outcome{Success: false, Message: badResponseMessage(badResponse.StatusCode)}
	}

	i.logger.Error("Classifier unavailable",
		slog.Int64("user_id", msg.ActingUserID),
		slog.String("message", msg.Text),
		slog.Any("error", err),
	)
	return Outcome{Success: false, Message: MessageUnavailable}
}

func (i *Interpreter) rejected(cmd command.Command, reply string, actingUserID int64, err error) Outcome {
	var invalid *InvalidFieldsError
	switch {
	case errors.As(err, &invalid):
		i.logger.Info("Rejected command with invalid fields",
			slog.String("kind", cmd.Kind()),
			slog.Int64("user_id", actingUserID),
			slog.Any("problems", invalid.Problems),
		)
		return failed(reply, invalidFieldsMarker(invalid.Problems))

	case errors.Is(err, ErrTargetNotFound), errors.Is(err, ErrNotOwner):
		i.logger.Info("Rejected command on inaccessible posting",
			slog.String("kind", cmd.Kind()),
			slog.Int64("user_id", actingUserID),
			slog.Any("error", err),
		)
		return failed(reply, markerNoPermission)

	default:
		i.logger.Error("Failed to authorize command",
			slog.String("kind", cmd.Kind()),
			slog.Int64("user_id", actingUserID),
			slog.Any("error", err),
		)
		return failed(reply, markerFailed)
	}
}
