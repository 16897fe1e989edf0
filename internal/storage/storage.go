package storage

import (
	"context"
	"io"
	"strings"
)

// ObjectStore persists uploaded colposcopy images. Save returns the path the
// client stores in the study's image slots: a relative /static path for the
// local backend, an absolute URL for object storage.
type ObjectStore interface {
	Save(ctx context.Context, name string, contentType string, size int64, r io.Reader) (string, error)
}

// DisplayURL resolves a stored image path to something a browser or the
// report renderer can fetch. Absolute URLs pass through untouched; relative
// paths get the public base prefixed.
func DisplayURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
