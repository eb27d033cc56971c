package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/prosidy/internal/configloader"
	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/internal/ui/pretty"
	"github.com/yaklabco/prosidy/pkg/codec"
	"github.com/yaklabco/prosidy/pkg/config"
	"github.com/yaklabco/prosidy/pkg/fsutil"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// commandLogger returns the logger attached to the command's context.
func commandLogger(cmd *cobra.Command) *log.Logger {
	return logging.FromContext(commandContext(cmd))
}

// withLogFields adds keyvals to every entry logged for the rest of cmd.
func withLogFields(cmd *cobra.Command, keyvals ...any) {
	cmd.SetContext(logging.WithFields(commandContext(cmd), keyvals...))
}

// loadConfig resolves the layered configuration with cliCfg on top.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*configloader.LoadResult, error) {
	logger := commandLogger(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	return result, nil
}

// resolveFormat picks the output format. An explicit --format wins, then
// the output file extension, then the configured format. Without any of
// those, options that only make sense for one format select it, and JSON
// is the fallback.
func resolveFormat(cmd *cobra.Command, cfg *config.Config, output string, logger *log.Logger) (codec.Format, error) {
	if cmd.Flags().Changed("format") {
		return codec.ParseFormat(cfg.Format)
	}

	if output != "" && output != stdio {
		format, err := codec.FormatFromPath(output)
		if err == nil {
			return format, nil
		}
		logger.Debug("cannot infer format from output path", logging.FieldOutput, output, logging.FieldReason, err)
	}

	switch {
	case cfg.Format != "":
		return codec.ParseFormat(cfg.Format)
	case len(cfg.Stylesheets) > 0 || !cfg.Namespace.IsZero():
		return codec.FormatXML, nil
	default:
		return codec.FormatJSON, nil
	}
}

// refuseBinaryToTerminal stops binary output from being dumped on a
// terminal.
func refuseBinaryToTerminal(w io.Writer, format codec.Format) error {
	if !format.IsBinary() {
		return nil
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("%w: refusing to write %s to a terminal; use --output or a pipe", ErrInvalidUsage, format)
	}
	return nil
}

// writeOutput writes content to stdout or atomically to a file, keeping
// the mode of a file it replaces.
func writeOutput(cmd *cobra.Command, output string, content []byte, logger *log.Logger) error {
	if output == "" || output == stdio {
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	mode := fsutil.ModeOf(output)
	if mode == 0 {
		mode = fsutil.DefaultFileMode
	}

	changed, err := fsutil.WriteAtomicIfChanged(commandContext(cmd), output, content, mode)
	if err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Debug("wrote output",
		logging.FieldOutput, output,
		logging.FieldBytes, len(content),
		"changed", changed,
	)
	return nil
}

// errorStyles returns styles for diagnostics written to stderr.
func errorStyles(cmd *cobra.Command) *pretty.Styles {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.ErrOrStderr()))
}

// codecOptions converts the resolved configuration to encoder options.
func codecOptions(cfg *config.Config) codec.Options {
	opts := codec.Options{
		Stylesheets: cfg.Stylesheets,
		Pretty:      config.BoolValue(cfg.Pretty),
	}
	if !cfg.Namespace.IsZero() {
		opts.Namespace = &codec.Namespace{Prefix: cfg.Namespace.Prefix, URI: cfg.Namespace.URI}
	}
	return opts
}
