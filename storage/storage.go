// Package storage provides destinations for downloaded generation
// content. It defines the Sink interface (port) and implementations for
// local disk and S3, so the same download path can persist videos to a
// file or push them to a bucket.
package storage

import (
	"context"
	"io"
)

// Sink persists a named piece of binary content and returns its final
// location (a file path or an object URL).
type Sink interface {
	// Store writes data under name. It either persists the full content
	// or leaves nothing behind; no partial artifacts survive a failure.
	Store(ctx context.Context, name string, data io.Reader) (location string, err error)
}
