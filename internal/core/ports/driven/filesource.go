package driven

import (
	"context"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// FileSource lists and downloads remote files from a folder.
type FileSource interface {
	// ListFolder returns the descriptors of files in the folder whose MIME
	// type maps to one of the accepted file types, in listing order.
	// Failures wrap domain.ErrRemoteList.
	ListFolder(ctx context.Context, folderID string, types []domain.FileType) ([]domain.FileDescriptor, error)

	// Download returns the raw bytes of one file.
	// Failures wrap domain.ErrRemoteDownload and are caught per file by
	// the orchestrator, never aborting the batch.
	Download(ctx context.Context, fd domain.FileDescriptor) ([]byte, error)
}
