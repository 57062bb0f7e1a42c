package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
	"github.com/drivebrief/drivebrief/internal/core/ports/driving"
)

// Ensure BatchService implements the interface.
var _ driving.BatchService = (*BatchService)(nil)

// BatchService orchestrates one run over a folder: list the matching files,
// then download, extract and summarize each one strictly sequentially.
// A stage failure is captured into that file's result and the run continues;
// only a missing session or a failed listing aborts the batch.
type BatchService struct {
	auth       driving.AuthService
	source     driven.FileSource
	extractors driven.ExtractorRegistry
	summarizer driven.Summarizer
	logger     *zap.Logger
}

// NewBatchService creates the orchestrator.
func NewBatchService(
	auth driving.AuthService,
	source driven.FileSource,
	extractors driven.ExtractorRegistry,
	summarizer driven.Summarizer,
	logger *zap.Logger,
) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		auth:       auth,
		source:     source,
		extractors: extractors,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Process runs one batch. Every listed descriptor produces exactly one
// result, success or error, so TotalFiles equals len(Files).
func (s *BatchService) Process(ctx context.Context, folderID string, types []domain.FileType) (*domain.BatchResponse, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folder_id is required: %w", domain.ErrInvalidInput)
	}
	if len(types) == 0 {
		types = domain.AllFileTypes
	}

	// Fail fast without a valid session; no per-file fallback makes sense.
	if _, err := s.auth.GetValidCredential(ctx); err != nil {
		return nil, err
	}

	files, err := s.source.ListFolder(ctx, folderID, types)
	if err != nil {
		return nil, err
	}

	s.logger.Info("processing batch",
		zap.String("folder_id", folderID),
		zap.Int("files", len(files)),
	)

	results := make([]domain.SummaryResult, 0, len(files))
	for _, fd := range files {
		results = append(results, s.processFile(ctx, fd))
	}

	return &domain.BatchResponse{
		Files:      results,
		TotalFiles: len(files),
	}, nil
}

// processFile runs the per-file pipeline. Never returns an error: failures
// become the file's result so one corrupt document cannot abort the batch.
func (s *BatchService) processFile(ctx context.Context, fd domain.FileDescriptor) domain.SummaryResult {
	result := domain.SummaryResult{
		Name:   fd.Name,
		Type:   fd.MIMEType,
		Size:   fd.FormatSize(),
		Status: domain.StatusSuccess,
	}

	fileType, ok := domain.FileTypeForMIME(fd.MIMEType)
	if !ok {
		return s.failFile(result, fd, fmt.Errorf("mime type %q: %w", fd.MIMEType, domain.ErrUnsupportedType))
	}

	data, err := s.source.Download(ctx, fd)
	if err != nil {
		return s.failFile(result, fd, err)
	}

	text, err := s.extractors.Extract(ctx, data, fileType)
	if err != nil {
		return s.failFile(result, fd, err)
	}

	// Empty text (e.g. a scanned-image PDF) still goes through the
	// summarizer; whatever it returns is the file's summary.
	summary, err := s.summarizer.Summarize(ctx, text, fd.Name)
	if err != nil {
		return s.failFile(result, fd, err)
	}

	result.Summary = summary
	return result
}

func (s *BatchService) failFile(result domain.SummaryResult, fd domain.FileDescriptor, err error) domain.SummaryResult {
	s.logger.Warn("file processing failed",
		zap.String("file_id", fd.ID),
		zap.String("name", fd.Name),
		zap.Error(err),
	)
	result.Status = domain.StatusError
	result.Error = err.Error()
	return result
}
