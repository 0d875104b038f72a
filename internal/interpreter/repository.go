package interpreter

import (
	"context"

	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/shared/events"
)

// PostingRepository is the durable posting store. FindByID, Update and Delete
// return domain.ErrPostingNotFound for unknown IDs.
type PostingRepository interface {
	Insert(ctx context.Context, posting *model.JobPosting) error
	FindByID(ctx context.Context, id int64) (*model.JobPosting, error)
	Update(ctx context.Context, posting *model.JobPosting) error
	Delete(ctx context.Context, id int64) error
	SetRole(ctx context.Context, userID int64, role string) error
}

// EventPublisher announces applied mutations
type EventPublisher interface {
	Publish(ctx context.Context, event events.PostingEvent) error
}

// Classifier maps a chat message to raw backend reply text
type Classifier interface {
	Classify(ctx context.Context, message string) (string, error)
}
