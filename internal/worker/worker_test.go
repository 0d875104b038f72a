package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/jobconnect/internal/worker/domain"
	"github.com/cuongbtq/jobconnect/shared/events"
	"github.com/cuongbtq/jobconnect/shared/logger"
)

type settlement struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeBroker struct {
	mu         sync.Mutex
	deliveries chan amqp.Delivery
	settled    []settlement
	prefetch   int
	qosErr     error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{deliveries: make(chan amqp.Delivery, 16)}
}

func (b *fakeBroker) Qos(prefetchCount int) error {
	b.prefetch = prefetchCount
	return b.qosErr
}

func (b *fakeBroker) Consume(string) (<-chan amqp.Delivery, error) {
	return b.deliveries, nil
}

func (b *fakeBroker) Ack(tag uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settled = append(b.settled, settlement{tag: tag, ack: true})
	return nil
}

func (b *fakeBroker) Nack(tag uint64, requeue bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settled = append(b.settled, settlement{tag: tag, requeue: requeue})
	return nil
}

func (b *fakeBroker) settlement(tag uint64) (settlement, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.settled {
		if s.tag == tag {
			return s, true
		}
	}
	return settlement{}, false
}

type fakeStore struct {
	mu       sync.Mutex
	records  map[string]domain.AuditRecord
	failures int
	cutoffs  []time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]domain.AuditRecord{}}
}

func (s *fakeStore) RecordEvent(_ context.Context, record domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	if _, ok := s.records[record.EventID]; ok {
		return domain.ErrDuplicateEvent
	}
	s.records[record.EventID] = record
	return nil
}

func (s *fakeStore) PruneEvents(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	var deleted int64
	for id, r := range s.records {
		if r.OccurredAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func delivery(t *testing.T, tag uint64, body any) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{DeliveryTag: tag, Body: raw}
}

func startWorker(t *testing.T, broker *fakeBroker, store *fakeStore) {
	t.Helper()

	w := NewWorker(&Config{
		Logger:      logger.Discard(),
		Broker:      broker,
		Store:       store,
		Concurrency: 2,
		JobTimeout:  time.Second,
		ConsumerTag: "test-worker",
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		w.Stop()
		assert.NoError(t, <-done)
	})
}

func waitSettled(t *testing.T, broker *fakeBroker, tag uint64) settlement {
	t.Helper()
	var got settlement
	require.Eventually(t, func() bool {
		var ok bool
		got, ok = broker.settlement(tag)
		return ok
	}, 2*time.Second, 5*time.Millisecond, "delivery %d was never settled", tag)
	return got
}

func TestWorker_RecordsEvents(t *testing.T) {
	broker := newFakeBroker()
	store := newFakeStore()
	startWorker(t, broker, store)

	event := events.NewPostingEvent(events.PostingCreated, 31, 7)
	broker.deliveries <- delivery(t, 1, event)
	broker.deliveries <- delivery(t, 2, event)

	first := waitSettled(t, broker, 1)
	second := waitSettled(t, broker, 2)

	assert.True(t, first.ack)
	assert.True(t, second.ack, "redelivered event is acknowledged")
	assert.Equal(t, 1, store.count())
	assert.Equal(t, 4, broker.prefetch)
}

func TestWorker_RejectsMalformedEvents(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "not json", body: []byte("{oops")},
		{name: "unknown type", body: events.PostingEvent{
			EventID: "0b6f3a4e-5d1c-4c55-9d8e-1f2a3b4c5d6e", Type: "posting.viewed",
			PostingID: 1, ActorUserID: 1, OccurredAt: time.Now(),
		}},
		{name: "missing event id", body: events.PostingEvent{
			Type: events.PostingDeleted, PostingID: 1, ActorUserID: 1, OccurredAt: time.Now(),
		}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broker := newFakeBroker()
			store := newFakeStore()
			startWorker(t, broker, store)

			tag := uint64(i + 10)
			broker.deliveries <- delivery(t, tag, tt.body)

			got := waitSettled(t, broker, tag)
			assert.False(t, got.ack)
			assert.False(t, got.requeue)
			assert.Equal(t, 0, store.count())
		})
	}
}

func TestWorker_RequeuesTransientFailures(t *testing.T) {
	broker := newFakeBroker()
	store := newFakeStore()
	store.failures = 1
	startWorker(t, broker, store)

	broker.deliveries <- delivery(t, 5, events.NewPostingEvent(events.PostingUpdated, 31, 7))

	got := waitSettled(t, broker, 5)
	assert.False(t, got.ack)
	assert.True(t, got.requeue)
}

func TestWorker_StartFailsWithoutQoS(t *testing.T) {
	broker := newFakeBroker()
	broker.qosErr = errors.New("channel closed")
	w := NewWorker(&Config{Logger: logger.Discard(), Broker: broker, Store: newFakeStore()})

	err := w.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set QoS")
}

func TestShouldRequeue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "retryable", err: domain.NewRetryableError(errors.New("timeout")), want: true},
		{name: "wrapped retryable", err: fmt.Errorf("ctx: %w", domain.NewRetryableError(errors.New("x"))), want: true},
		{name: "invalid payload", err: fmt.Errorf("%w: bad json", domain.ErrInvalidPayload), want: false},
		{name: "unknown", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRequeue(tt.err))
		})
	}
}

func TestRetention_PruneOnce(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	store.records["old"] = domain.AuditRecord{EventID: "old", OccurredAt: now.Add(-40 * 24 * time.Hour)}
	store.records["new"] = domain.AuditRecord{EventID: "new", OccurredAt: now.Add(-time.Hour)}

	r := NewRetention(store, 30*24*time.Hour, "@daily", time.Second, logger.Discard())
	r.now = func() time.Time { return now }

	deleted, err := r.PruneOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, []time.Time{now.Add(-30 * 24 * time.Hour)}, store.cutoffs)
	assert.Contains(t, store.records, "new")
}

func TestRetention_InvalidSchedule(t *testing.T) {
	r := NewRetention(newFakeStore(), time.Hour, "every tuesday", time.Second, logger.Discard())

	err := r.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid retention schedule")
}

func TestRetention_StartStop(t *testing.T) {
	r := NewRetention(newFakeStore(), time.Hour, "@hourly", time.Second, logger.Discard())

	require.NoError(t, r.Start())
	r.Stop()
}
