package domain

import (
	"time"

	"github.com/cuongbtq/jobconnect/shared/events"
)

// EventMessage is a decoded delivery waiting for a pool worker
type EventMessage struct {
	Event       events.PostingEvent
	DeliveryTag uint64
}

// AuditRecord is one stored row of the posting_events table
type AuditRecord struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	PostingID   int64     `db:"posting_id"`
	ActorUserID int64     `db:"actor_user_id"`
	OccurredAt  time.Time `db:"occurred_at"`
	RecordedAt  time.Time `db:"recorded_at"`
}

// NewAuditRecord maps an event to its stored form
func NewAuditRecord(e events.PostingEvent, recordedAt time.Time) AuditRecord {
	return AuditRecord{
		EventID:     e.EventID,
		EventType:   string(e.Type),
		PostingID:   e.PostingID,
		ActorUserID: e.ActorUserID,
		OccurredAt:  e.OccurredAt,
		RecordedAt:  recordedAt,
	}
}
