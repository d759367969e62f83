// Package files provides the handles for a video picked by the user.
package files

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Source tells where a selection came from.
type Source string

const (
	SourceUpload Source = "upload" // multipart body received from the browser
	SourcePath   Source = "path"   // local file named on the command line
)

// SelectedFile is an opaque handle to a user-chosen video.
// It is replaced as a whole on re-selection and never mutated.
type SelectedFile interface {
	Name() string
	MIMEType() string
	Size() int64
	// Open returns a fresh reader over the file content. Each call starts at the beginning.
	Open() (io.ReadCloser, error)
}

type memoryFile struct {
	name     string
	mimeType string
	data     []byte
}

func (f *memoryFile) Name() string     { return f.name }
func (f *memoryFile) MIMEType() string { return f.mimeType }
func (f *memoryFile) Size() int64      { return int64(len(f.data)) }

func (f *memoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// FromBytes wraps an uploaded file. declaredType is the Content-Type the browser
// sent for the part; when it is missing or generic the content is sniffed instead.
func FromBytes(name, declaredType string, data []byte) SelectedFile {
	mimeType := usableMIME(declaredType)
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	RecordSelection(SourceUpload, int64(len(data)))
	return &memoryFile{
		name:     filepath.Base(name),
		mimeType: mimeType,
		data:     data,
	}
}

type pathFile struct {
	path     string
	mimeType string
	size     int64
}

func (f *pathFile) Name() string     { return filepath.Base(f.path) }
func (f *pathFile) MIMEType() string { return f.mimeType }
func (f *pathFile) Size() int64      { return f.size }

func (f *pathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// FromPath wraps a file on local disk. The content type comes from sniffing the
// first bytes, since there is no picker filter on this path.
func FromPath(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type of %s: %w", path, err)
	}

	RecordSelection(SourcePath, info.Size())
	return &pathFile{
		path:     path,
		mimeType: detected.String(),
		size:     info.Size(),
	}, nil
}

// usableMIME returns the media type without parameters, or "" when the declared
// type tells nothing about the content.
func usableMIME(declared string) string {
	if declared == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil || mt == "application/octet-stream" {
		return ""
	}
	return mt
}
