package driving

import (
	"context"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// BatchService runs one orchestration pass over a folder.
type BatchService interface {
	// Process lists the files in the folder matching the type filter and
	// runs download, extract, summarize for each one sequentially. Stage
	// failures are captured into that file's result; listing and
	// authentication failures abort the batch.
	Process(ctx context.Context, folderID string, types []domain.FileType) (*domain.BatchResponse, error)
}
