package adapter

import (
	"context"
	"io"
)

// ObjectStorage stores e-book files and covers.
type ObjectStorage interface {
	// Put uploads body under key, overwriting any existing object, and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PublicURL(key string) string
}
