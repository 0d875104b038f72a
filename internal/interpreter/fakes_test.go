package interpreter

import (
	"context"
	"errors"
	"sync"

	"github.com/cuongbtq/jobconnect/internal/api/domain"
	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/shared/events"
)

type memoryRepo struct {
	mu       sync.Mutex
	nextID   int64
	postings map[int64]model.JobPosting
	roles    map[int64]string

	lookups   int
	mutations int

	insertErr error
	updateErr error
	deleteErr error
	findErr   error
}

func newMemoryRepo(existing ...model.JobPosting) *memoryRepo {
	r := &memoryRepo{
		nextID:   100,
		postings: map[int64]model.JobPosting{},
		roles:    map[int64]string{},
	}
	for _, p := range existing {
		r.postings[p.ID] = p
	}
	return r
}

func (r *memoryRepo) Insert(_ context.Context, posting *model.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations++
	if r.insertErr != nil {
		return r.insertErr
	}
	r.nextID++
	posting.ID = r.nextID
	r.postings[posting.ID] = *posting
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id int64) (*model.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.postings[id]
	if !ok {
		return nil, domain.ErrPostingNotFound
	}
	return &p, nil
}

func (r *memoryRepo) Update(_ context.Context, posting *model.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.postings[posting.ID]; !ok {
		return domain.ErrPostingNotFound
	}
	r.postings[posting.ID] = *posting
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.postings[id]; !ok {
		return domain.ErrPostingNotFound
	}
	delete(r.postings, id)
	return nil
}

func (r *memoryRepo) SetRole(_ context.Context, userID int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = role
	return nil
}

func (r *memoryRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups + r.mutations
}

type stubClassifier struct {
	reply string
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

type recordingPublisher struct {
	events []events.PostingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.PostingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errDatabase = errors.New("connection reset by peer")
