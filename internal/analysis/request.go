package analysis

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/runixer/rhetoric/internal/files"
)

// FileField is the multipart field name the backend reads the video from.
const FileField = "file"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Request is one multipart/form-data upload with a single file part.
// It is built fresh for every submit and streams the file when written.
type Request struct {
	file   files.SelectedFile
	writer *multipart.Writer
}

// NewRequest prepares the upload of file.
func NewRequest(file files.SelectedFile) *Request {
	return &Request{
		file:   file,
		writer: multipart.NewWriter(nil),
	}
}

// ContentType returns the multipart Content-Type header including the boundary.
func (r *Request) ContentType() string {
	return r.writer.FormDataContentType()
}

// WriteTo writes the full multipart body to w.
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(r.writer.Boundary()); err != nil {
		return cw.n, err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FileField, quoteEscaper.Replace(r.file.Name())))
	contentType := r.file.MIMEType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return cw.n, fmt.Errorf("failed to create file part: %w", err)
	}

	src, err := r.file.Open()
	if err != nil {
		return cw.n, fmt.Errorf("failed to open %s: %w", r.file.Name(), err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return cw.n, fmt.Errorf("failed to copy %s: %w", r.file.Name(), err)
	}
	if err := mw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
