package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

// wrapListError converts a listing failure into a domain error with a
// message the caller can surface directly.
func wrapListError(err error, folderID string) error {
	switch {
	case IsNotFound(err):
		return fmt.Errorf("folder %q not found: %w", folderID, domain.ErrRemoteList)
	case IsForbidden(err):
		return fmt.Errorf("permission denied for folder %q: %w", folderID, domain.ErrRemoteList)
	default:
		return fmt.Errorf("list folder %q: %v: %w", folderID, err, domain.ErrRemoteList)
	}
}

// wrapDownloadError converts a download failure into the per-file domain
// error; the orchestrator catches it without aborting the batch.
func wrapDownloadError(err error, name string) error {
	return fmt.Errorf("download %q: %v: %w", name, err, domain.ErrRemoteDownload)
}
