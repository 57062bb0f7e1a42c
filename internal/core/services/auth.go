package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	oauthgoogle "golang.org/x/oauth2/google"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
	"github.com/drivebrief/drivebrief/internal/core/ports/driving"
)

// Ensure AuthService implements both the driving interface and the token
// provider the Drive client consumes.
var (
	_ driving.AuthService  = (*AuthService)(nil)
	_ driven.TokenProvider = (*AuthService)(nil)
)

// ScopeDriveReadonly is the only scope the service ever requests.
const ScopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"

// Default lifecycle parameters.
const (
	// DefaultStateTTL bounds how long a consent flow may stay pending.
	DefaultStateTTL = 10 * time.Minute
	// DefaultRefreshBuffer refreshes slightly before actual expiry so a
	// token handed out is not stale by the time it reaches the provider.
	DefaultRefreshBuffer = 5 * time.Minute
)

// AuthConfig holds the OAuth client configuration.
type AuthConfig struct {
	// ClientID is the OAuth client ID (required).
	ClientID string
	// ClientSecret is the OAuth client secret (required).
	ClientSecret string
	// RedirectURI is the registered callback URL (required).
	RedirectURI string

	// AuthURL overrides the provider consent endpoint. Defaults to Google's.
	AuthURL string
	// TokenURL overrides the provider token endpoint. Defaults to Google's.
	// Injectable so tests can point at a local server.
	TokenURL string

	// StateTTL bounds pending consent flows (default 10m).
	StateTTL time.Duration
	// RefreshBuffer refreshes tokens this long before expiry (default 5m).
	RefreshBuffer time.Duration

	// HTTPClient is used for token endpoint calls. Defaults to a client
	// with a 30s timeout.
	HTTPClient *http.Client
}

// AuthService manages the OAuth2 token lifecycle against the provider and
// persists the single credential record through the injected store.
type AuthService struct {
	cfg    AuthConfig
	store  driven.CredentialStore
	client *http.Client
	logger *zap.Logger

	// pending holds consent flows awaiting their callback, keyed by state.
	pendingMu sync.Mutex
	pending   map[string]pendingAuth

	// Cached access token so concurrent batches do not each hit the store.
	mu          sync.RWMutex
	cachedToken string
	cacheExpiry time.Time
}

type pendingAuth struct {
	codeVerifier string
	expires      time.Time
}

// NewAuthService creates the token manager.
func NewAuthService(cfg AuthConfig, store driven.CredentialStore, logger *zap.Logger) (*AuthService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("oauth client id and secret are required: %w", domain.ErrInvalidInput)
	}
	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("oauth redirect uri is required: %w", domain.ErrInvalidInput)
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = oauthgoogle.Endpoint.AuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = oauthgoogle.Endpoint.TokenURL
	}
	if cfg.StateTTL == 0 {
		cfg.StateTTL = DefaultStateTTL
	}
	if cfg.RefreshBuffer == 0 {
		cfg.RefreshBuffer = DefaultRefreshBuffer
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		cfg:     cfg,
		store:   store,
		client:  client,
		logger:  logger,
		pending: make(map[string]pendingAuth),
	}, nil
}

// AuthorizationURL builds the consent URL bound to the configured client,
// redirect URI and read-only scope. The returned state is opaque to the
// caller and must match on callback.
func (s *AuthService) AuthorizationURL() (string, string, error) {
	state := uuid.New().String()
	verifier := generateCodeVerifier()

	s.pendingMu.Lock()
	s.prunePendingLocked()
	s.pending[state] = pendingAuth{
		codeVerifier: verifier,
		expires:      time.Now().Add(s.cfg.StateTTL),
	}
	s.pendingMu.Unlock()

	v := url.Values{}
	v.Set("client_id", s.cfg.ClientID)
	v.Set("redirect_uri", s.cfg.RedirectURI)
	v.Set("response_type", "code")
	v.Set("scope", ScopeDriveReadonly)
	v.Set("state", state)
	// Google only issues a refresh token with access_type=offline, and only
	// reliably on a prompted consent.
	v.Set("access_type", "offline")
	v.Set("prompt", "consent")
	v.Set("code_challenge", codeChallenge(verifier))
	v.Set("code_challenge_method", "S256")

	return s.cfg.AuthURL + "?" + v.Encode(), state, nil
}

// HandleCallback validates the state, exchanges the authorization code for
// tokens, and persists the credential, overwriting any prior record.
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) error {
	verifier, ok := s.consumePending(state)
	if !ok {
		return fmt.Errorf("unknown or expired state: %w", domain.ErrAuthExchange)
	}
	if code == "" {
		return fmt.Errorf("no authorization code received: %w", domain.ErrAuthExchange)
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", s.cfg.ClientID)
	data.Set("client_secret", s.cfg.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", s.cfg.RedirectURI)
	data.Set("code_verifier", verifier)

	tok, err := s.postTokenRequest(ctx, data)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	cred := domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scopes:       strings.Fields(tok.Scope),
	}
	if tok.ExpiresIn > 0 {
		cred.Expiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}

	if err := s.store.Save(ctx, cred); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.invalidateCache()

	s.logger.Info("authorization completed",
		zap.Time("expiry", cred.Expiry),
		zap.Strings("scopes", cred.Scopes),
	)
	return nil
}

// GetValidCredential loads the persisted credential, refreshing it when
// expired. The returned credential is valid for immediate use.
func (s *AuthService) GetValidCredential(ctx context.Context) (*domain.Credential, error) {
	cred, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if cred == nil || cred.AccessToken == "" {
		return nil, fmt.Errorf("no credential record: %w", domain.ErrNotAuthenticated)
	}

	if !cred.IsExpired() && !cred.ExpiresWithin(s.cfg.RefreshBuffer) {
		return cred, nil
	}

	if cred.RefreshToken == "" {
		return nil, fmt.Errorf("credential expired and no refresh token stored: %w", domain.ErrAuthExchange)
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", cred.RefreshToken)
	data.Set("client_id", s.cfg.ClientID)
	data.Set("client_secret", s.cfg.ClientSecret)

	tok, err := s.postTokenRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	cred.AccessToken = tok.AccessToken
	cred.TokenType = tok.TokenType
	if tok.RefreshToken != "" {
		// Google usually omits the refresh token on refresh; keep the old one.
		cred.RefreshToken = tok.RefreshToken
	}
	if tok.ExpiresIn > 0 {
		cred.Expiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	} else {
		cred.Expiry = time.Time{}
	}

	if err := s.store.Save(ctx, *cred); err != nil {
		return nil, fmt.Errorf("save refreshed credential: %w", err)
	}

	s.logger.Debug("credential refreshed", zap.Time("expiry", cred.Expiry))
	return cred, nil
}

// GetToken implements driven.TokenProvider for the Drive token source.
func (s *AuthService) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock.
	s.mu.RLock()
	if s.cachedToken != "" && time.Now().Before(s.cacheExpiry) {
		token := s.cachedToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if s.cachedToken != "" && time.Now().Before(s.cacheExpiry) {
		return s.cachedToken, nil
	}

	cred, err := s.GetValidCredential(ctx)
	if err != nil {
		return "", err
	}

	s.cachedToken = cred.AccessToken
	if !cred.Expiry.IsZero() {
		s.cacheExpiry = cred.Expiry.Add(-s.cfg.RefreshBuffer)
	} else {
		s.cacheExpiry = time.Now().Add(1 * time.Hour)
	}
	return s.cachedToken, nil
}

// IsAuthenticated reports whether a credential record exists.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	cred, err := s.store.Get(ctx)
	return err == nil && cred != nil && cred.AccessToken != ""
}

// Revoke deletes the credential record.
func (s *AuthService) Revoke(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.invalidateCache()
	s.logger.Info("credential revoked")
	return nil
}

// tokenResponse holds the provider's token endpoint response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// postTokenRequest performs a form-encoded call against the token endpoint.
// Provider rejections surface as domain.ErrAuthExchange.
func (s *AuthService) postTokenRequest(ctx context.Context, data url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("provider rejected request: %s - %s: %w",
				errResp.Error, errResp.Description, domain.ErrAuthExchange)
		}
		return nil, fmt.Errorf("token request failed with status %d: %w",
			resp.StatusCode, domain.ErrAuthExchange)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token: %w", domain.ErrAuthExchange)
	}
	return &tok, nil
}

// consumePending removes and returns the pending flow for a state.
func (s *AuthService) consumePending(state string) (string, bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	p, ok := s.pending[state]
	if !ok {
		return "", false
	}
	delete(s.pending, state)
	if time.Now().After(p.expires) {
		return "", false
	}
	return p.codeVerifier, true
}

// prunePendingLocked drops expired flows. Caller holds pendingMu.
func (s *AuthService) prunePendingLocked() {
	now := time.Now()
	for state, p := range s.pending {
		if now.After(p.expires) {
			delete(s.pending, state)
		}
	}
}

func (s *AuthService) invalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cachedToken = ""
	s.cacheExpiry = time.Time{}
}

// generateCodeVerifier generates a random PKCE code verifier.
func generateCodeVerifier() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// codeChallenge derives the S256 PKCE challenge from a verifier.
func codeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
