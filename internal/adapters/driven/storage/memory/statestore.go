package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is an in-memory implementation of driven.StateStore.
type StateStore struct {
	mu      sync.Mutex
	pending map[string]domain.PendingState
	now     func() time.Time
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		pending: make(map[string]domain.PendingState),
		now:     time.Now,
	}
}

// Stash records a state and drops any that have expired.
func (s *StateStore) Stash(_ context.Context, state domain.PendingState) error {
	if state.State == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, p := range s.pending {
		if p.IsExpired(now) {
			delete(s.pending, k)
		}
	}
	s.pending[state.State] = state
	return nil
}

// Take retrieves and deletes the state equal to value.
func (s *StateStore) Take(_ context.Context, value string) (*domain.PendingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[value]
	if !ok {
		return nil, nil
	}
	delete(s.pending, value)
	if p.IsExpired(s.now()) {
		return nil, nil
	}
	return &p, nil
}

// Has reports whether value is pending.
func (s *StateStore) Has(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[value]
	return ok
}

// Len returns the number of pending states.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
