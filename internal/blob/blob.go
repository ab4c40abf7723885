// Package blob stores the original resume files behind a small object-storage interface.
package blob

import (
	"context"
	"errors"
	"io"
	"mime"
	"strings"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("object not found")

// Object is a stored file
type Object struct {
	Data        []byte
	ContentType string
}

// Storage persists objects by key.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
}

var extByMIME = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"text/plain":      ".txt",
	"text/html":       ".html",
}

// ResumeKey returns the key holding accountID's latest resume file.
func ResumeKey(accountID, mimeType string) string {
	return accountID + "/resume" + Extension(mimeType)
}

// Extension returns a file extension for mimeType, or ".bin" when unknown.
func Extension(mimeType string) string {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if ext, ok := extByMIME[base]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
