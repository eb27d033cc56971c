// Package manifest collects the headers of every Prosidy file under a
// directory.
package manifest

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/prosidy/pkg/parser"
)

// Options controls a manifest scan.
type Options struct {
	// Root is the directory to scan. Defaults to the working directory.
	Root string

	// Extensions lists the file extensions (lowercase, with leading dot)
	// treated as Prosidy sources. Defaults to DefaultExtensions().
	Extensions []string

	// Ignore holds glob patterns, relative to Root, for files and
	// directories to skip.
	Ignore []string

	// FollowSymlinks controls whether symlinked files and directories are
	// scanned.
	FollowSymlinks bool

	// IncludeVendored disables skipping of vendored paths such as
	// node_modules/ or vendor/.
	IncludeVendored bool

	// Jobs is the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Parser parses file headers. Defaults to parser.New().
	Parser *parser.Parser

	// Logger receives debug progress. Defaults to the logger attached to
	// the scan context, see logging.FromContext.
	Logger *log.Logger
}

// DefaultExtensions returns the default set of Prosidy file extensions.
func DefaultExtensions() []string {
	return []string{".pro"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectiveRoot() string {
	if o.Root == "" {
		return "."
	}
	return o.Root
}
