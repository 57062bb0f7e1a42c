package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotAuthenticated indicates no credential record exists.
	// Batch-level: the whole request fails, since no per-file fallback
	// makes sense without a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAuthExchange indicates the provider rejected an authorization code
	// or a refresh token. The caller must re-run the consent flow.
	ErrAuthExchange = errors.New("authorization exchange rejected")

	// ErrRemoteList indicates the folder listing failed (missing folder,
	// insufficient permissions). Batch-level.
	ErrRemoteList = errors.New("remote listing failed")

	// ErrRemoteDownload indicates a single file download failed. Per-file.
	ErrRemoteDownload = errors.New("remote download failed")

	// ErrUnsupportedType indicates a file type outside the pdf/docx/txt set.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrSummaryProvider indicates the language-model provider failed
	// (quota, authentication, malformed response). Per-file.
	ErrSummaryProvider = errors.New("summary provider failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
