// Package worker consumes posting change events and keeps the audit trail.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cuongbtq/jobconnect/internal/worker/domain"
)

// Broker is the subset of the RabbitMQ client the worker consumes through
type Broker interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
	Ack(deliveryTag uint64) error
	Nack(deliveryTag uint64, requeue bool) error
}

// EventStore persists audit records
type EventStore interface {
	RecordEvent(ctx context.Context, record domain.AuditRecord) error
	PruneEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Broker        Broker
	Store         EventStore
	Concurrency   int
	JobTimeout    time.Duration
	PrefetchCount int
	ConsumerTag   string
	QueueName     string
}

// Worker represents the posting event consumer
type Worker struct {
	logger        *slog.Logger
	broker        Broker
	store         EventStore
	concurrency   int
	jobTimeout    time.Duration
	prefetchCount int
	workerID      string
	queueName     string
	eventsChan    chan *domain.EventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency * 2
	}

	workerID := cfg.ConsumerTag
	if workerID == "" {
		hostname, _ := os.Hostname()
		workerID = fmt.Sprintf("worker-%s-%s", hostname, uuid.NewString()[:8])
	}

	return &Worker{
		logger:        cfg.Logger,
		broker:        cfg.Broker,
		store:         cfg.Store,
		concurrency:   concurrency,
		jobTimeout:    cfg.JobTimeout,
		prefetchCount: prefetch,
		workerID:      workerID,
		queueName:     cfg.QueueName,
		eventsChan:    make(chan *domain.EventMessage, concurrency),
		stopChan:      make(chan struct{}),
		now:           time.Now,
	}
}

// Start consumes events until ctx is canceled or the delivery channel closes
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)

	w.startMessageDispatcher(ctx, deliveries)

	w.logger.Info("Worker dispatcher exited",
		slog.String("worker_id", w.workerID),
	)
	return nil
}

// Stop signals the pool to exit and waits for in-flight events
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
