package driving

import (
	"context"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// AuthService owns the OAuth2 token lifecycle: consent URL construction,
// code exchange, refresh, and persistence of the credential record.
type AuthService interface {
	// AuthorizationURL builds the provider consent URL and returns it with
	// the opaque state token to be checked on callback.
	AuthorizationURL() (url string, state string, err error)

	// HandleCallback validates the state and exchanges the authorization
	// code for a credential, persisting it over any prior record.
	// Rejections wrap domain.ErrAuthExchange.
	HandleCallback(ctx context.Context, state, code string) error

	// GetValidCredential returns a credential guaranteed valid for
	// immediate use, refreshing an expired one. An absent record wraps
	// domain.ErrNotAuthenticated; a rejected refresh wraps
	// domain.ErrAuthExchange.
	GetValidCredential(ctx context.Context) (*domain.Credential, error)

	// IsAuthenticated reports whether a credential record exists.
	IsAuthenticated(ctx context.Context) bool

	// Revoke deletes the credential record. Terminal state.
	Revoke(ctx context.Context) error
}
