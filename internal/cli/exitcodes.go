package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/prosidy/internal/configloader"
	"github.com/yaklabco/prosidy/pkg/fsutil"
	"github.com/yaklabco/prosidy/pkg/parser"
)

// Exit codes for prosidy.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitParseErrors indicates one or more inputs failed to parse. Output
	// for the inputs that did parse is still written.
	ExitParseErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrParseFailed is returned after parse errors have been rendered.
	ErrParseFailed = errors.New("parse failed")

	// ErrInvalidUsage is returned for flag combinations that cannot be
	// honored.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("configuration error")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		perr    *parser.Error
		valErr  *configloader.ValidationError
		pathErr *fs.PathError
	)

	switch {
	case errors.Is(err, ErrParseFailed):
		return ExitParseErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &valErr):
		return ExitConfigError
	case errors.As(err, &perr):
		if perr.Kind == parser.KindIO {
			return ExitIOError
		}
		return ExitParseErrors
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
