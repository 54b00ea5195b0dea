package memory

import (
	"context"
	"sync"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu    sync.RWMutex
	cred  *domain.Credential
	saves int
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Load returns the stored credential.
func (s *CredentialStore) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, domain.ErrNotFound
	}
	cred := *s.cred
	return &cred, nil
}

// Save replaces the stored credential.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
	s.saves++
	return nil
}

// Clear removes the stored credential.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}

// Saves returns how many times Save was called.
func (s *CredentialStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
