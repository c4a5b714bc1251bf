// Package upload sends files to the asset host through its unsigned upload API.
//
// The multipart/form-data body is assembled in memory so its exact length is
// known before the request is sent; the asset host validates Content-Length
// up front and rejects chunked bodies.
package upload

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

const (
	boundaryPrefix     = "ResumeAIFormBoundary"
	boundaryRandomSize = 16
	crlf               = "\r\n"
	defaultContentType = "application/octet-stream"
)

// Field is a plain string form field.
type Field struct {
	Name  string
	Value string
}

// FilePart is the binary part of the form.
type FilePart struct {
	FieldName   string
	Filename    string
	ContentType string
	Content     []byte
}

// Body is an encoded multipart payload.
type Body struct {
	Boundary string
	Bytes    []byte
}

// ContentType returns the header value announcing the body's boundary.
func (b Body) ContentType() string {
	return "multipart/form-data; boundary=" + b.Boundary
}

// Len returns the exact payload length sent as Content-Length.
func (b Body) Len() int64 {
	return int64(len(b.Bytes))
}

// NewBoundary returns a boundary token backed by crypto/rand.
func NewBoundary() (string, error) {
	buf := make([]byte, boundaryRandomSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random boundary: %w", err)
	}
	return boundaryPrefix + hex.EncodeToString(buf), nil
}

// Encode writes fields followed by file into a single contiguous buffer.
// The boundary must not occur inside any part's content.
func Encode(boundary string, fields []Field, file *FilePart) (Body, error) {
	if boundary == "" {
		return Body{}, fmt.Errorf("empty boundary")
	}
	if file != nil && bytes.Contains(file.Content, []byte(boundary)) {
		return Body{}, fmt.Errorf("boundary %q occurs in file content", boundary)
	}

	var buf bytes.Buffer
	for _, f := range fields {
		if strings.Contains(f.Value, boundary) {
			return Body{}, fmt.Errorf("boundary %q occurs in field %q", boundary, f.Name)
		}
		writePartHeader(&buf, boundary, f.Name, "", "")
		buf.WriteString(f.Value)
		buf.WriteString(crlf)
	}

	if file != nil {
		contentType := file.ContentType
		if contentType == "" {
			contentType = DetectContentType(file.Filename)
		}
		writePartHeader(&buf, boundary, file.FieldName, file.Filename, contentType)
		buf.Write(file.Content)
		buf.WriteString(crlf)
	}

	buf.WriteString("--" + boundary + "--" + crlf)

	return Body{Boundary: boundary, Bytes: buf.Bytes()}, nil
}

// EncodeRandom encodes with a fresh random boundary, regenerating it in the
// unlikely case it collides with the content.
func EncodeRandom(fields []Field, file *FilePart) (Body, error) {
	var lastErr error
	for range 3 {
		boundary, err := NewBoundary()
		if err != nil {
			return Body{}, err
		}
		body, err := Encode(boundary, fields, file)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return Body{}, lastErr
}

// DetectContentType guesses a part content type from the file extension.
func DetectContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return defaultContentType
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "%0D", "\n", "%0A")

func writePartHeader(buf *bytes.Buffer, boundary, name, filename, contentType string) {
	buf.WriteString("--" + boundary + crlf)
	buf.WriteString(`Content-Disposition: form-data; name="` + quoteEscaper.Replace(name) + `"`)
	if filename != "" {
		buf.WriteString(`; filename="` + quoteEscaper.Replace(filename) + `"`)
	}
	buf.WriteString(crlf)
	if contentType != "" {
		buf.WriteString("Content-Type: " + contentType + crlf)
	}
	buf.WriteString(crlf)
}
