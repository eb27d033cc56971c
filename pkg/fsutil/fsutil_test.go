package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/prosidy/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file content and metadata", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.pro")
		content := []byte("title: Test\n---\nHello.\n")

		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		got, info, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		if string(got) != string(content) {
			t.Errorf("content = %q, want %q", got, content)
		}
		if info.Path != path {
			t.Errorf("Path = %q, want %q", info.Path, path)
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Size = %d, want %d", info.Size, len(content))
		}
		if info.Mode.Perm() != 0o644 {
			t.Errorf("Mode = %o, want %o", info.Mode.Perm(), 0o644)
		}
	})

	t.Run("classifies missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.pro"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Fatalf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "whatever.pro")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}

func TestModeOf(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.xml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got := fsutil.ModeOf(path); got != 0o600 {
		t.Errorf("ModeOf() = %o, want %o", got, 0o600)
	}
	if got := fsutil.ModeOf(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("ModeOf(missing) = %o, want 0", got)
	}
}
