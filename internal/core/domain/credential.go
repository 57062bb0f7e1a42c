package domain

import "time"

// Credential represents the stored OAuth tokens for the Drive session.
// Exactly one credential exists at a time; a new authorization overwrites
// the previous record.
type Credential struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token" toml:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty" toml:"refresh_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type" toml:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty" toml:"expiry"`
	// Scopes are the scopes granted by the user.
	Scopes []string `json:"scopes,omitempty" toml:"scopes"`
}

// IsExpired returns true if the access token has expired.
func (c *Credential) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// ExpiresWithin returns true if the token expires inside the given buffer.
// Used to refresh slightly early rather than racing the provider clock.
func (c *Credential) ExpiresWithin(buffer time.Duration) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Until(c.Expiry) < buffer
}
