package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/jobconnect/internal/worker/domain"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// RecordEvent stores an audit record once per event_id. A redelivered event
// returns domain.ErrDuplicateEvent.
func (s *Storage) RecordEvent(ctx context.Context, record domain.AuditRecord) error {
	query := `
		INSERT INTO posting_events (
			event_id, event_type, posting_id, actor_user_id, occurred_at, recorded_at
		) VALUES (
			:event_id, :event_type, :posting_id, :actor_user_id, :occurred_at, :recorded_at
		)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := s.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrDuplicateEvent
	}

	return nil
}

// PruneEvents deletes audit records that occurred before cutoff
func (s *Storage) PruneEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posting_events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.logger.Info("Pruned posting events",
		slog.Time("cutoff", cutoff),
		slog.Int64("deleted", rowsAffected),
	)

	return rowsAffected, nil
}
