// Package extract converts raw document bytes into plain text, dispatching
// on the closed pdf/docx/txt type set.
package extract

import (
	"context"
	"fmt"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"

	"github.com/drivebrief/drivebrief/internal/extract/docx"
	"github.com/drivebrief/drivebrief/internal/extract/pdf"
	"github.com/drivebrief/drivebrief/internal/extract/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file type.
type Registry struct {
	byType map[domain.FileType]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[domain.FileType]driven.Extractor),
	}
}

// DefaultRegistry creates a registry with the pdf, docx and plaintext
// extractors registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor for each of its supported types.
// A later registration for the same type wins.
func (r *Registry) Register(e driven.Extractor) {
	for _, t := range e.SupportedTypes() {
		r.byType[t] = e
	}
}

// Extract runs the extractor registered for the file type.
func (r *Registry) Extract(ctx context.Context, data []byte, fileType domain.FileType) (string, error) {
	e, ok := r.byType[fileType]
	if !ok {
		return "", fmt.Errorf("no extractor for %q: %w", fileType, domain.ErrUnsupportedType)
	}
	return e.Extract(ctx, data)
}
