// Package httpapi exposes the batch and authorization flows over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driving"
)

// HandlerConfig holds the request-independent knobs of the HTTP surface.
type HandlerConfig struct {
	// DefaultFolderID is used when a summarize request omits folder_id.
	DefaultFolderID string

	// RedirectURL is where the OAuth callback sends the browser afterwards,
	// typically the dashboard. The outcome is appended as ?auth=ok|error.
	RedirectURL string

	// SummaryModel is reported by the health endpoint.
	SummaryModel string

	// OpenAIConfigured reports whether a provider key is present.
	OpenAIConfigured bool
}

// Handler serves the API endpoints.
type Handler struct {
	batch  driving.BatchService
	auth   driving.AuthService
	cfg    HandlerConfig
	logger *zap.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(batch driving.BatchService, auth driving.AuthService, cfg HandlerConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		batch:  batch,
		auth:   auth,
		cfg:    cfg,
		logger: logger,
	}
}

// summarizeRequest is the POST /api/summarize request body.
type summarizeRequest struct {
	FolderID  string   `json:"folder_id"`
	FileTypes []string `json:"file_types"`
}

// Summarize handles POST /api/summarize.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := GetRequestID(ctx)

	var req summarizeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid request body", requestID)
			return
		}
	}

	if req.FolderID == "" {
		req.FolderID = h.cfg.DefaultFolderID
	}
	if req.FolderID == "" {
		h.respondError(w, http.StatusBadRequest, "folder_id is required", requestID)
		return
	}

	types := make([]domain.FileType, 0, len(req.FileTypes))
	for _, raw := range req.FileTypes {
		t, err := domain.ParseFileType(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "unsupported file type: "+raw, requestID)
			return
		}
		types = append(types, t)
	}

	resp, err := h.batch.Process(ctx, req.FolderID, types)
	if err != nil {
		h.logger.Error("batch failed",
			zap.String("request_id", requestID),
			zap.String("folder_id", req.FolderID),
			zap.Error(err),
		)
		h.respondError(w, statusForError(err), err.Error(), requestID)
		return
	}

	h.respondJSON(w, http.StatusOK, resp, requestID)
}

// Authorize handles GET /oauth/authorize by redirecting the browser to the
// provider consent page.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	authURL, state, err := h.auth.AuthorizationURL()
	if err != nil {
		h.logger.Error("build authorization url",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to start authorization", requestID)
		return
	}

	h.logger.Info("authorization started",
		zap.String("request_id", requestID),
		zap.String("state", state),
	)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /oauth/callback. The provider redirects here with
// code and state; the browser is then sent on to the configured redirect URL
// with the outcome in the auth query parameter.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := GetRequestID(ctx)

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	if err := h.auth.HandleCallback(ctx, state, code); err != nil {
		h.logger.Warn("authorization callback failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		http.Redirect(w, r, h.redirectWithOutcome("error"), http.StatusFound)
		return
	}

	http.Redirect(w, r, h.redirectWithOutcome("ok"), http.StatusFound)
}

// Status handles GET /oauth/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]bool{
		"authenticated": h.auth.IsAuthenticated(r.Context()),
	}, requestID)
}

// Revoke handles POST /oauth/revoke.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := GetRequestID(ctx)

	if err := h.auth.Revoke(ctx); err != nil {
		h.logger.Error("revoke failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to revoke credential", requestID)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"}, requestID)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	google := "unauthenticated"
	if h.auth.IsAuthenticated(r.Context()) {
		google = "ok"
	}
	openai := "not_configured"
	if h.cfg.OpenAIConfigured {
		openai = h.cfg.SummaryModel
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"google": google,
		"openai": openai,
	}, requestID)
}

// redirectWithOutcome appends the auth outcome to the redirect URL.
func (h *Handler) redirectWithOutcome(outcome string) string {
	target := h.cfg.RedirectURL
	if target == "" {
		target = "/"
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("auth", outcome)
	u.RawQuery = q.Encode()
	return u.String()
}

// statusForError maps domain errors to HTTP status codes. Per-file failures
// never reach here; they ride inside a 200 response body.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrAuthExchange):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRemoteList):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

// respondError sends an error response.
func (h *Handler) respondError(w http.ResponseWriter, status int, message, requestID string) {
	h.respondJSON(w, status, map[string]string{
		"error":      message,
		"request_id": requestID,
	}, requestID)
}
