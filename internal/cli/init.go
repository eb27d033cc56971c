package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/pkg/config"
	"github.com/yaklabco/prosidy/pkg/fsutil"
)

// defaultConfigFile is the project configuration file init creates.
const defaultConfigFile = ".prosidy.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new prosidy configuration file",
		Long: `Create a new .prosidy.yml configuration file in the current directory.

The minimal template documents every option as a comment. The full template
writes every option with its default value.

Examples:
  prosidy init                       Create a commented .prosidy.yml
  prosidy init --full                Write every option with its default
  prosidy init --output custom.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every option with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'prosidy config show' to see the resolved configuration")

	return nil
}
