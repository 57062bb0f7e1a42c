// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"strings"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeTXT}
}

// Extract decodes the bytes as text. Decoding is tolerant: invalid byte
// sequences are dropped rather than failing the file, so one bad encoding
// never aborts a batch entry.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	return strings.TrimSpace(strings.ToValidUTF8(string(data), "")), nil
}
