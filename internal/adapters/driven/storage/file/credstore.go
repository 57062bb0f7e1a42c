// Package file provides the on-disk credential store.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore persists the single credential record as a TOML file.
// The file is the only durable state the service keeps.
type CredentialStore struct {
	mu   sync.Mutex
	path string
}

// record is the on-disk shape of the credential.
type record struct {
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	TokenType    string    `toml:"token_type"`
	Expiry       time.Time `toml:"expiry"`
	Scopes       []string  `toml:"scopes"`
}

// NewCredentialStore creates a store at the given path.
// If path is empty, defaults to ~/.drivebrief/credential.toml.
func NewCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".drivebrief", "credential.toml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}

	return &CredentialStore{path: path}, nil
}

// Get retrieves the stored credential. Returns (nil, nil) when no record
// exists.
func (s *CredentialStore) Get(_ context.Context) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var rec record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode credential file: %w", err)
	}

	return &domain.Credential{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		TokenType:    rec.TokenType,
		Expiry:       rec.Expiry,
		Scopes:       rec.Scopes,
	}, nil
}

// Save stores the credential, overwriting any prior record. The file is
// written with owner-only permissions.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    cred.TokenType,
		Expiry:       cred.Expiry,
		Scopes:       cred.Scopes,
	}

	data, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// Clear deletes the record. A missing record is not an error.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

// Path returns the file path backing the store.
func (s *CredentialStore) Path() string {
	return s.path
}
