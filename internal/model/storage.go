package model

import (
	"context"
	"io"
)

// Storage is the object store gateway. Every operation is fallible and
// returns an error instead of panicking; callers decide compensation.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, public bool) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	PublicURL(key string) string
}
