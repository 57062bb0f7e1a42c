package domain

import (
	"fmt"
	"strings"
)

// FileType identifies a processable document format. The set is closed:
// anything outside it is rejected with ErrUnsupportedType.
type FileType string

const (
	// FileTypePDF is a PDF document.
	FileTypePDF FileType = "pdf"
	// FileTypeDOCX is a Word (OOXML) document.
	FileTypeDOCX FileType = "docx"
	// FileTypeTXT is a plain text file.
	FileTypeTXT FileType = "txt"
)

// AllFileTypes is the default filter when a request names no types.
var AllFileTypes = []FileType{FileTypePDF, FileTypeDOCX, FileTypeTXT}

// MIME types for each member of the closed set.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTypeTXT  = "text/plain"
)

// ParseFileType validates a type tag from a request.
func ParseFileType(s string) (FileType, error) {
	switch FileType(strings.ToLower(strings.TrimSpace(s))) {
	case FileTypePDF:
		return FileTypePDF, nil
	case FileTypeDOCX:
		return FileTypeDOCX, nil
	case FileTypeTXT:
		return FileTypeTXT, nil
	default:
		return "", fmt.Errorf("file type %q: %w", s, ErrUnsupportedType)
	}
}

// MIMEType returns the Drive MIME type for the file type.
func (t FileType) MIMEType() string {
	switch t {
	case FileTypePDF:
		return MimeTypePDF
	case FileTypeDOCX:
		return MimeTypeDOCX
	case FileTypeTXT:
		return MimeTypeTXT
	default:
		return ""
	}
}

// FileTypeForMIME maps a declared MIME type back to a member of the set.
func FileTypeForMIME(mimeType string) (FileType, bool) {
	switch mimeType {
	case MimeTypePDF:
		return FileTypePDF, true
	case MimeTypeDOCX:
		return FileTypeDOCX, true
	case MimeTypeTXT:
		return FileTypeTXT, true
	default:
		return "", false
	}
}

// FileDescriptor identifies one remote file without its content.
// Sourced fresh from the listing on every run, never cached.
type FileDescriptor struct {
	// ID is the remote file identifier.
	ID string
	// Name is the display name.
	Name string
	// MIMEType is the declared MIME type.
	MIMEType string
	// Size is the byte size; zero when the provider omits it.
	Size int64
}

// FormatSize renders the byte size for the response payload.
// Drive omits the size for some file classes; those render as "N/A".
func (fd FileDescriptor) FormatSize() string {
	if fd.Size <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dB", fd.Size)
}

// Result statuses for a processed file.
const (
	// StatusSuccess marks a file that produced a summary.
	StatusSuccess = "success"
	// StatusError marks a file whose pipeline failed at some stage.
	StatusError = "error"
)

// SummaryResult is the per-file output unit of one batch run.
type SummaryResult struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	Summary string `json:"summary"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// BatchResponse is the sole externally visible output of one batch run.
// Every listed FileDescriptor produces exactly one SummaryResult, so
// TotalFiles always equals len(Files).
type BatchResponse struct {
	Files      []SummaryResult `json:"files"`
	TotalFiles int             `json:"total_files"`
}
