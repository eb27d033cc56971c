// Package main is the entry point for the prosidy CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/prosidy/internal/cli"
	"github.com/yaklabco/prosidy/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrParseFailed) {
		// Parse failures have already been rendered on stderr.
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
