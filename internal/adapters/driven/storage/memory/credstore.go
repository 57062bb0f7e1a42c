// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"sync"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory credential store for tests.
type CredentialStore struct {
	mu   sync.RWMutex
	cred *domain.Credential
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Get retrieves the stored credential. Returns (nil, nil) when no record
// exists.
func (s *CredentialStore) Get(_ context.Context) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil {
		return nil, nil
	}
	cp := *s.cred
	cp.Scopes = append([]string(nil), s.cred.Scopes...)
	return &cp, nil
}

// Save stores the credential, overwriting any prior record.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cred
	cp.Scopes = append([]string(nil), cred.Scopes...)
	s.cred = &cp
	return nil
}

// Clear deletes the record.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	return nil
}
