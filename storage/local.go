package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalSink implements Sink using local disk. Content is staged in a
// temporary file and renamed into place, so a destination path never
// exists half-written.
type LocalSink struct {
	dir string
}

// NewLocalSink creates a LocalSink rooted at dir. If dir is empty,
// os.TempDir() is used. The directory is created if it doesn't exist.
func NewLocalSink(dir string) (*LocalSink, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create sink directory: %w", err)
	}

	return &LocalSink{dir: dir}, nil
}

// Dir returns the sink's root directory.
func (s *LocalSink) Dir() string {
	return s.dir
}

// Store writes data to dir/name atomically and returns the file path.
func (s *LocalSink) Store(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path := filepath.Join(s.dir, name)
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename. On any failure the temporary file is
// removed and the destination is left untouched.
func WriteFileAtomic(path string, data io.Reader) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, "."+base+"_*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Compile-time check that LocalSink implements Sink.
var _ Sink = (*LocalSink)(nil)
