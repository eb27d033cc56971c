// Package cli provides the Cobra command structure for prosidy.
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/prosidy/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root prosidy command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "prosidy",
		Short: "Compile Prosidy markup to XML, JSON, CBOR or YAML",
		Long: `prosidy parses documents written in Prosidy, a small markup language of
tagged blocks and inline text with a properties header, and serializes
them for downstream tools.

Documents compile to an XML event stream (optionally with XSLT stylesheets
and a namespace for user tags) or to a lossless JSON, CBOR or YAML tree.
The manifest command collects the headers of a whole directory at once.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := commandContext(cmd)
			logger := logging.FromContext(ctx)
			if debug {
				logger.SetLevel(log.DebugLevel)
			}
			cmd.SetContext(logging.WithLogger(ctx, logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newCompileCommand())
	rootCmd.AddCommand(newManifestCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
