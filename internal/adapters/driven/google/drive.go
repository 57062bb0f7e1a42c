package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
)

// Ensure DriveClient implements the interface.
var _ driven.FileSource = (*DriveClient)(nil)

// listPageSize is the page size for files.list requests.
const listPageSize = 100

// maxDownloadBytes caps a single file download. The batch holds each file
// in memory for the duration of its pipeline stage.
const maxDownloadBytes = 50 * 1024 * 1024

// DriveClient lists and downloads files from Google Drive folders.
// Every listing is fresh; descriptors are never cached between batches.
type DriveClient struct {
	svc     *drive.Service
	limiter *RateLimiter
	logger  *zap.Logger
}

// NewDriveClient creates a Drive v3 client using the provided TokenSource.
func NewDriveClient(ctx context.Context, ts oauth2.TokenSource, logger *zap.Logger) (*DriveClient, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveClient{
		svc:     svc,
		limiter: NewRateLimiter(),
		logger:  logger,
	}, nil
}

// ListFolder returns the descriptors of non-trashed files in the folder
// whose MIME type maps to one of the accepted types, in listing order.
func (c *DriveClient) ListFolder(ctx context.Context, folderID string, types []domain.FileType) ([]domain.FileDescriptor, error) {
	query := buildQuery(folderID, types)

	var files []domain.FileDescriptor
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		call := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, size)").
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			c.recordRateLimit(err)
			return nil, wrapListError(err, folderID)
		}

		for _, f := range res.Files {
			files = append(files, domain.FileDescriptor{
				ID:       f.Id,
				Name:     f.Name,
				MIMEType: f.MimeType,
				Size:     f.Size,
			})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	c.logger.Debug("listed folder",
		zap.String("folder_id", folderID),
		zap.Int("files", len(files)),
	)
	return files, nil
}

// Download returns the raw bytes of one file.
func (c *DriveClient) Download(ctx context.Context, fd domain.FileDescriptor) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.svc.Files.Get(fd.ID).Context(ctx).Download()
	if err != nil {
		c.recordRateLimit(err)
		return nil, wrapDownloadError(err, fd.Name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, wrapDownloadError(err, fd.Name)
	}
	return data, nil
}

// recordRateLimit feeds 429 responses into the limiter's backoff window.
func (c *DriveClient) recordRateLimit(err error) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusTooManyRequests {
		return
	}
	retryAfter := 0
	if v := gerr.Header.Get("Retry-After"); v != "" {
		fmt.Sscanf(v, "%d", &retryAfter)
	}
	c.limiter.RecordRateLimitError(retryAfter)
}

// buildQuery assembles the files.list query: children of the folder, not
// trashed, restricted to the accepted MIME types.
func buildQuery(folderID string, types []domain.FileType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' in parents and trashed=false", escapeQueryValue(folderID))

	if len(types) > 0 {
		clauses := make([]string, 0, len(types))
		for _, t := range types {
			if mime := t.MIMEType(); mime != "" {
				clauses = append(clauses, fmt.Sprintf("mimeType='%s'", mime))
			}
		}
		if len(clauses) > 0 {
			b.WriteString(" and (")
			b.WriteString(strings.Join(clauses, " or "))
			b.WriteString(")")
		}
	}
	return b.String()
}

// escapeQueryValue escapes quotes and backslashes inside a query literal.
func escapeQueryValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
