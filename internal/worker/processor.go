package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobconnect/internal/worker/domain"
)

// processEvent records one event in the audit trail. A redelivered event is
// treated as success so it gets acknowledged.
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	record := domain.NewAuditRecord(msg.Event, w.now().UTC())

	err := w.store.RecordEvent(jobCtx, record)
	switch {
	case err == nil:
		w.logger.Info("Posting event recorded",
			slog.String("event_id", record.EventID),
			slog.String("event_type", record.EventType),
			slog.Int64("posting_id", record.PostingID),
			slog.Int64("actor_user_id", record.ActorUserID),
		)
		return nil

	case errors.Is(err, domain.ErrDuplicateEvent):
		w.logger.Info("Posting event already recorded, skipping",
			slog.String("event_id", record.EventID),
		)
		return nil

	default:
		return domain.NewRetryableError(fmt.Errorf("record event %s: %w", record.EventID, err))
	}
}
