package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLocalSink(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "videos")

		sink, err := NewLocalSink(dir)
		if err != nil {
			t.Fatalf("NewLocalSink() error = %v", err)
		}
		if sink.Dir() != dir {
			t.Errorf("Dir() = %v, want %v", sink.Dir(), dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("uses temp directory when empty", func(t *testing.T) {
		sink, err := NewLocalSink("")
		if err != nil {
			t.Fatalf("NewLocalSink() error = %v", err)
		}
		if sink.Dir() != os.TempDir() {
			t.Errorf("Dir() = %v, want %v", sink.Dir(), os.TempDir())
		}
	})
}

func TestLocalSink_Store(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewLocalSink(dir)
	if err != nil {
		t.Fatalf("NewLocalSink() error = %v", err)
	}

	t.Run("writes content and returns path", func(t *testing.T) {
		path, err := sink.Store(context.Background(), "video.mp4", strings.NewReader("video data"))
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if path != filepath.Join(dir, "video.mp4") {
			t.Errorf("Store() path = %v", path)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read stored file: %v", err)
		}
		if string(got) != "video data" {
			t.Errorf("stored content = %q, want %q", got, "video data")
		}
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := sink.Store(ctx, "cancelled.mp4", strings.NewReader("data")); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

// failingReader returns an error partway through a read.
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestWriteFileAtomic(t *testing.T) {
	t.Run("writes full content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.bin")

		if err := WriteFileAtomic(path, bytes.NewReader([]byte{1, 2, 3})); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if !bytes.Equal(got, []byte{1, 2, 3}) {
			t.Errorf("content = %v, want [1 2 3]", got)
		}
	})

	t.Run("leaves nothing behind on read failure", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.bin")

		if err := WriteFileAtomic(path, failingReader{}); err == nil {
			t.Fatal("expected error from failing reader")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty directory, found %d entries", len(entries))
		}
	})

	t.Run("does not clobber existing file on failure", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.bin")
		if err := os.WriteFile(path, []byte("original"), 0600); err != nil {
			t.Fatalf("seed file: %v", err)
		}

		if err := WriteFileAtomic(path, failingReader{}); err == nil {
			t.Fatal("expected error from failing reader")
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if string(got) != "original" {
			t.Errorf("existing file was modified: %q", got)
		}
	})

	t.Run("replaces existing file on success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.bin")
		if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
			t.Fatalf("seed file: %v", err)
		}

		if err := WriteFileAtomic(path, strings.NewReader("new")); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if string(got) != "new" {
			t.Errorf("content = %q, want new", got)
		}
	})
}

// Interface satisfaction sanity check with a streaming reader.
func TestLocalSink_StoreLargeStream(t *testing.T) {
	sink, err := NewLocalSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalSink() error = %v", err)
	}

	data := bytes.Repeat([]byte("abcd"), 64*1024)
	path, err := sink.Store(context.Background(), "large.bin", io.LimitReader(bytes.NewReader(data), int64(len(data))))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat stored file: %v", err)
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("stored size = %d, want %d", info.Size(), len(data))
	}
}
