package driven

import (
	"context"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// Extractor converts raw file bytes of specific formats into plain text.
// An empty result is a legitimate terminal content state (e.g. a
// scanned-image PDF), not an error.
type Extractor interface {
	// SupportedTypes returns the file types this extractor handles.
	SupportedTypes() []domain.FileType

	// Extract returns the plain text content of the document.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry dispatches extraction by file type.
type ExtractorRegistry interface {
	// Extract runs the extractor registered for the file type.
	// An unregistered type wraps domain.ErrUnsupportedType.
	Extract(ctx context.Context, data []byte, fileType domain.FileType) (string, error)
}
