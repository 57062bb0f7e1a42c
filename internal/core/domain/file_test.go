package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileType(t *testing.T) {
	tests := []struct {
		input   string
		want    FileType
		wantErr bool
	}{
		{"pdf", FileTypePDF, false},
		{"docx", FileTypeDOCX, false},
		{"txt", FileTypeTXT, false},
		{"PDF", FileTypePDF, false},
		{" txt ", FileTypeTXT, false},
		{"doc", "", true},
		{"", "", true},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFileType(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			assert.True(t, errors.Is(err, ErrUnsupportedType))
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestFileTypeMIMERoundTrip(t *testing.T) {
	for _, ft := range AllFileTypes {
		mime := ft.MIMEType()
		require.NotEmpty(t, mime)

		back, ok := FileTypeForMIME(mime)
		require.True(t, ok)
		assert.Equal(t, ft, back)
	}
}

func TestFileTypeForMIME_Unknown(t *testing.T) {
	_, ok := FileTypeForMIME("image/png")
	assert.False(t, ok)

	_, ok = FileTypeForMIME("")
	assert.False(t, ok)
}

func TestFileDescriptorFormatSize(t *testing.T) {
	assert.Equal(t, "1024B", FileDescriptor{Size: 1024}.FormatSize())
	assert.Equal(t, "N/A", FileDescriptor{Size: 0}.FormatSize())
	assert.Equal(t, "N/A", FileDescriptor{Size: -1}.FormatSize())
}
