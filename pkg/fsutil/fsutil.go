// Package fsutil reads Prosidy sources and writes compiled output safely.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FileInfo captures the state of a file when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
}

// ReadFile reads a file and returns its content along with metadata.
// Failures are classified with the package sentinel errors.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, "stat", err)
	}

	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, "read", err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}

	return content, info, nil
}

// ModeOf returns the permission bits of an existing file, or 0 if it does
// not exist.
func ModeOf(path string) os.FileMode {
	stat, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return stat.Mode().Perm()
}

func classify(path, op string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
