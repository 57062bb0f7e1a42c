// Package google provides the Google Drive adapter: an oauth2 token source
// backed by the token manager, and a rate-limited Drive v3 client.
package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
)

// tokenSource adapts driven.TokenProvider to oauth2.TokenSource so Google
// API clients pull tokens through the token manager on every request.
type tokenSource struct {
	provider driven.TokenProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource from a TokenProvider. The
// returned source can be used with option.WithTokenSource() when creating
// Google API services.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider) oauth2.TokenSource {
	return &tokenSource{
		provider: provider,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource. Called by Google API clients when
// they need an access token.
func (t *tokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
