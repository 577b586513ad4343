package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aetheroos/aethero-core/internal/domain"
)

// ThreadStore is the in-memory implementation of domain.ThreadStore. All
// mutation happens under a single lock, so appends to a thread are atomic
// and interleaved writers cannot clobber each other.
type ThreadStore struct {
	mu       sync.RWMutex
	threads  map[domain.ThreadID]*domain.Thread
	messages map[domain.ThreadID][]*domain.Message
}

func NewThreadStore() *ThreadStore {
	return &ThreadStore{
		threads:  make(map[domain.ThreadID]*domain.Thread),
		messages: make(map[domain.ThreadID][]*domain.Message),
	}
}

func (s *ThreadStore) CreateThread(ctx context.Context, thread *domain.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.threads[thread.ID]; exists {
		return errors.New("thread already exists")
	}

	s.threads[thread.ID] = thread
	s.messages[thread.ID] = []*domain.Message{}
	return nil
}

func (s *ThreadStore) UpdateThread(ctx context.Context, thread *domain.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.threads[thread.ID]; !exists {
		return domain.ErrThreadNotFound
	}

	s.threads[thread.ID] = thread
	return nil
}

func (s *ThreadStore) GetThread(ctx context.Context, id domain.ThreadID) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[id]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	return t, nil
}

func (s *ThreadStore) AppendMessages(ctx context.Context, id domain.ThreadID, msgs ...*domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[id]; !ok {
		return domain.ErrThreadNotFound
	}

	s.messages[id] = append(s.messages[id], msgs...)
	if len(msgs) > 0 {
		s.threads[id].UpdatedAt = msgs[len(msgs)-1].CreatedAt
	}
	return nil
}

func (s *ThreadStore) Messages(ctx context.Context, id domain.ThreadID) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.threads[id]; !ok {
		return nil, domain.ErrThreadNotFound
	}

	msgs := s.messages[id]
	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *ThreadStore) ListThreadIDs(ctx context.Context) ([]domain.ThreadID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.ThreadID, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	// time-based ids: lexicographic order is creation order
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
