package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("manifests can only be read from a directory")

// candidate is a discovered source file.
type candidate struct {
	abs string
	rel string
}

// discover finds Prosidy sources under opts.Root. It returns the absolute
// root, the candidates sorted by relative path, and the number of paths
// skipped as vendored.
func discover(ctx context.Context, opts Options) (string, []candidate, int, error) {
	root, err := filepath.Abs(opts.effectiveRoot())
	if err != nil {
		return "", nil, 0, fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", nil, 0, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", nil, 0, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	w := walker{
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		visited:    map[string]struct{}{root: {}},
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		w.visited[real] = struct{}{}
	}
	if err := w.walk(ctx, root, ""); err != nil {
		return "", nil, 0, err
	}

	slices.SortFunc(w.found, func(a, b candidate) int {
		return strings.Compare(a.rel, b.rel)
	})
	return root, w.found, w.vendored, nil
}

type walker struct {
	extensions []string
	opts       Options
	visited    map[string]struct{}
	found      []candidate
	vendored   int
}

// walk scans dir, whose path relative to the scan root is relBase. Symlinked
// directories are walked through their target and reported under the link
// path. visited guards against symlink cycles.
func (w *walker) walk(ctx context.Context, dir, relBase string) error {
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(filepath.Join(relBase, rel))

		if entry.IsDir() {
			if path == dir {
				return nil
			}
			return w.checkDir(entry.Name(), rel)
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return w.symlink(ctx, path, rel)
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		w.consider(path, rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", dir, err)
	}
	return nil
}

func (w *walker) checkDir(name, rel string) error {
	if strings.HasPrefix(name, ".") {
		return filepath.SkipDir
	}
	if matchesAny(rel, w.opts.Ignore) {
		return filepath.SkipDir
	}
	if !w.opts.IncludeVendored && enry.IsVendor(rel+"/") {
		w.vendored++
		return filepath.SkipDir
	}
	return nil
}

func (w *walker) symlink(ctx context.Context, path, rel string) error {
	if !w.opts.FollowSymlinks {
		return nil
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Unreadable targets are skipped.
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			w.consider(path, rel)
		}
		return nil
	}

	if _, seen := w.visited[target]; seen {
		return nil
	}
	w.visited[target] = struct{}{}

	if err := w.checkDir(filepath.Base(path), rel); err != nil {
		if errors.Is(err, filepath.SkipDir) {
			return nil
		}
		return err
	}
	return w.walk(ctx, target, rel)
}

func (w *walker) consider(path, rel string) {
	if !hasExtension(path, w.extensions) {
		return
	}
	if matchesAny(rel, w.opts.Ignore) {
		return
	}
	if !w.opts.IncludeVendored && enry.IsVendor(rel) {
		w.vendored++
		return
	}
	w.found = append(w.found, candidate{abs: path, rel: rel})
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a pattern.
// "dir/**" matches everything under dir, "**/name" matches name at any
// depth, and a pattern without a slash is also tried against the base name.
func matchGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}

	if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
		parts := strings.Split(path, "/")
		for i := range parts {
			if ok, _ := filepath.Match(suffix, strings.Join(parts[i:], "/")); ok {
				return true
			}
		}
		return false
	}

	if ok, _ := filepath.Match(pattern, path); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := filepath.Match(pattern, filepath.Base(path))
		return ok
	}
	return false
}
