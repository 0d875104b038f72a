// Package events defines the posting change events exchanged between the API
// and the worker over RabbitMQ.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened to a posting
type Type string

const (
	PostingCreated Type = "posting.created"
	PostingUpdated Type = "posting.updated"
	PostingDeleted Type = "posting.deleted"
)

// ContentType is the AMQP content type of an encoded event
const ContentType = "application/json"

var ErrInvalidEvent = errors.New("invalid posting event")

// PostingEvent is published after a posting mutation has been applied
type PostingEvent struct {
	EventID     string    `json:"event_id"`
	Type        Type      `json:"type"`
	PostingID   int64     `json:"posting_id"`
	ActorUserID int64     `json:"actor_user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewPostingEvent stamps a fresh event ID and the current time
func NewPostingEvent(eventType Type, postingID, actorUserID int64) PostingEvent {
	return PostingEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		PostingID:   postingID,
		ActorUserID: actorUserID,
		OccurredAt:  time.Now().UTC(),
	}
}

// Validate checks an event decoded from the wire
func (e PostingEvent) Validate() error {
	if _, err := uuid.Parse(e.EventID); err != nil {
		return fmt.Errorf("%w: event_id %q is not a UUID", ErrInvalidEvent, e.EventID)
	}

	switch e.Type {
	case PostingCreated, PostingUpdated, PostingDeleted:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}

	if e.PostingID <= 0 {
		return fmt.Errorf("%w: posting_id must be positive", ErrInvalidEvent)
	}
	if e.ActorUserID <= 0 {
		return fmt.Errorf("%w: actor_user_id must be positive", ErrInvalidEvent)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at is required", ErrInvalidEvent)
	}

	return nil
}
