package driven

import "context"

// TokenProvider supplies valid access tokens for API clients.
type TokenProvider interface {
	// GetToken returns an access token valid for immediate use,
	// refreshing the stored credential if necessary.
	GetToken(ctx context.Context) (string, error)
}
