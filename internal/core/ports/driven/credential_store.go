package driven

import (
	"context"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// CredentialStore persists the single OAuth credential record.
// Injected rather than ambient so tests can substitute an in-memory store.
type CredentialStore interface {
	// Get retrieves the stored credential.
	// Returns (nil, nil) when no record exists.
	Get(ctx context.Context) (*domain.Credential, error)

	// Save stores the credential, overwriting any prior record.
	Save(ctx context.Context, cred domain.Credential) error

	// Clear deletes the record. Deleting a missing record is not an error.
	Clear(ctx context.Context) error
}
