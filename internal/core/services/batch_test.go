package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebrief/drivebrief/internal/core/domain"
)

// stubAuth satisfies driving.AuthService with canned responses.
type stubAuth struct {
	credErr error
}

func (s *stubAuth) AuthorizationURL() (string, string, error) { return "", "", nil }
func (s *stubAuth) HandleCallback(context.Context, string, string) error {
	return nil
}
func (s *stubAuth) GetValidCredential(context.Context) (*domain.Credential, error) {
	if s.credErr != nil {
		return nil, s.credErr
	}
	return &domain.Credential{AccessToken: "token"}, nil
}
func (s *stubAuth) IsAuthenticated(context.Context) bool { return s.credErr == nil }
func (s *stubAuth) Revoke(context.Context) error         { return nil }

// stubSource satisfies driven.FileSource.
type stubSource struct {
	files     []domain.FileDescriptor
	listErr   error
	downloads map[string][]byte
	dlErr     map[string]error
	gotTypes  []domain.FileType
}

func (s *stubSource) ListFolder(_ context.Context, _ string, types []domain.FileType) ([]domain.FileDescriptor, error) {
	s.gotTypes = types
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.files, nil
}

func (s *stubSource) Download(_ context.Context, fd domain.FileDescriptor) ([]byte, error) {
	if err := s.dlErr[fd.ID]; err != nil {
		return nil, err
	}
	return s.downloads[fd.ID], nil
}

// stubExtractors satisfies driven.ExtractorRegistry, returning the data
// itself as text.
type stubExtractors struct {
	err error
}

func (s *stubExtractors) Extract(_ context.Context, data []byte, _ domain.FileType) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return string(data), nil
}

// stubSummarizer satisfies driven.Summarizer.
type stubSummarizer struct {
	err    error
	inputs []string
}

func (s *stubSummarizer) Summarize(_ context.Context, text, _ string) (string, error) {
	s.inputs = append(s.inputs, text)
	if s.err != nil {
		return "", s.err
	}
	return "summary of: " + text, nil
}

func (s *stubSummarizer) ModelName() string { return "stub-model" }

func pdfFile(id, name string, size int64) domain.FileDescriptor {
	return domain.FileDescriptor{ID: id, Name: name, MIMEType: domain.MimeTypePDF, Size: size}
}

func TestProcess_HappyPath(t *testing.T) {
	source := &stubSource{
		files: []domain.FileDescriptor{
			pdfFile("f1", "report.pdf", 100),
			{ID: "f2", Name: "notes.txt", MIMEType: domain.MimeTypeTXT, Size: 20},
		},
		downloads: map[string][]byte{
			"f1": []byte("report body"),
			"f2": []byte("notes body"),
		},
	}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, &stubSummarizer{}, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)

	require.Len(t, resp.Files, 2)
	assert.Equal(t, 2, resp.TotalFiles)

	first := resp.Files[0]
	assert.Equal(t, "report.pdf", first.Name)
	assert.Equal(t, domain.MimeTypePDF, first.Type)
	assert.Equal(t, "100B", first.Size)
	assert.Equal(t, domain.StatusSuccess, first.Status)
	assert.Equal(t, "summary of: report body", first.Summary)
	assert.Empty(t, first.Error)
}

func TestProcess_DefaultsToAllTypes(t *testing.T) {
	source := &stubSource{}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, &stubSummarizer{}, nil)

	_, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AllFileTypes, source.gotTypes)
}

func TestProcess_RequiresFolderID(t *testing.T) {
	svc := NewBatchService(&stubAuth{}, &stubSource{}, &stubExtractors{}, &stubSummarizer{}, nil)

	_, err := svc.Process(context.Background(), "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_NotAuthenticated(t *testing.T) {
	auth := &stubAuth{credErr: fmt.Errorf("no record: %w", domain.ErrNotAuthenticated)}
	source := &stubSource{files: []domain.FileDescriptor{pdfFile("f1", "a.pdf", 1)}}
	svc := NewBatchService(auth, source, &stubExtractors{}, &stubSummarizer{}, nil)

	_, err := svc.Process(context.Background(), "folder-1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	// The listing must not run without a session.
	assert.Nil(t, source.gotTypes)
}

func TestProcess_ListFailureAbortsBatch(t *testing.T) {
	source := &stubSource{listErr: fmt.Errorf("folder gone: %w", domain.ErrRemoteList)}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, &stubSummarizer{}, nil)

	_, err := svc.Process(context.Background(), "folder-1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteList)
}

func TestProcess_EmptyFolder(t *testing.T) {
	svc := NewBatchService(&stubAuth{}, &stubSource{}, &stubExtractors{}, &stubSummarizer{}, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Files)
	assert.Equal(t, 0, resp.TotalFiles)
}

func TestProcess_PerFileErrorIsolation(t *testing.T) {
	source := &stubSource{
		files: []domain.FileDescriptor{
			pdfFile("bad", "broken.pdf", 10),
			pdfFile("good", "fine.pdf", 10),
		},
		downloads: map[string][]byte{"good": []byte("fine body")},
		dlErr: map[string]error{
			"bad": fmt.Errorf("download broken.pdf: %w", domain.ErrRemoteDownload),
		},
	}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, &stubSummarizer{}, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Files, 2)

	bad := resp.Files[0]
	assert.Equal(t, domain.StatusError, bad.Status)
	assert.Contains(t, bad.Error, "broken.pdf")
	assert.Empty(t, bad.Summary)

	good := resp.Files[1]
	assert.Equal(t, domain.StatusSuccess, good.Status)
	assert.Equal(t, "summary of: fine body", good.Summary)
}

func TestProcess_UnsupportedMIMEType(t *testing.T) {
	source := &stubSource{
		files: []domain.FileDescriptor{
			{ID: "f1", Name: "image.png", MIMEType: "image/png", Size: 10},
		},
	}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, &stubSummarizer{}, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)

	result := resp.Files[0]
	assert.Equal(t, domain.StatusError, result.Status)
	assert.Contains(t, result.Error, "image/png")
	assert.Contains(t, result.Error, domain.ErrUnsupportedType.Error())
}

func TestProcess_ExtractionFailure(t *testing.T) {
	source := &stubSource{
		files:     []domain.FileDescriptor{pdfFile("f1", "mangled.pdf", 10)},
		downloads: map[string][]byte{"f1": []byte("not a pdf")},
	}
	extractors := &stubExtractors{err: fmt.Errorf("malformed pdf: %w", domain.ErrInvalidInput)}
	svc := NewBatchService(&stubAuth{}, source, extractors, &stubSummarizer{}, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, domain.StatusError, resp.Files[0].Status)
}

func TestProcess_SummarizerFailure(t *testing.T) {
	source := &stubSource{
		files:     []domain.FileDescriptor{pdfFile("f1", "a.pdf", 10)},
		downloads: map[string][]byte{"f1": []byte("body")},
	}
	summarizer := &stubSummarizer{err: fmt.Errorf("quota exceeded: %w", domain.ErrSummaryProvider)}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, summarizer, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, domain.StatusError, resp.Files[0].Status)
	assert.Contains(t, resp.Files[0].Error, "quota exceeded")
}

func TestProcess_EmptyTextStillSummarized(t *testing.T) {
	source := &stubSource{
		files:     []domain.FileDescriptor{pdfFile("f1", "scanned.pdf", 10)},
		downloads: map[string][]byte{"f1": []byte("")},
	}
	summarizer := &stubSummarizer{}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, summarizer, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, domain.StatusSuccess, resp.Files[0].Status)
	require.Len(t, summarizer.inputs, 1)
	assert.Empty(t, summarizer.inputs[0])
}

func TestProcess_SizeNA(t *testing.T) {
	source := &stubSource{
		files:     []domain.FileDescriptor{pdfFile("f1", "nosize.pdf", 0)},
		downloads: map[string][]byte{"f1": []byte("body")},
	}
	svc := NewBatchService(&stubAuth{}, source, &stubExtractors{}, &stubSummarizer{}, nil)

	resp, err := svc.Process(context.Background(), "folder-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "N/A", resp.Files[0].Size)
}
