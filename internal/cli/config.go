package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prosidy/internal/configloader"
	"github.com/yaklabco/prosidy/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Inspect how prosidy resolves its configuration.

Configuration is merged from, lowest to highest precedence: built-in
defaults, the system file, the user file, the nearest project file
(.prosidy.yml), the file given with --config, PROSIDY_* environment
variables, and command-line flags.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd, &config.Config{})
			if err != nil {
				return err
			}

			var header strings.Builder
			header.WriteString("# resolved prosidy configuration")
			if len(loaded.LoadedFrom) == 0 {
				header.WriteString("\n# no configuration files loaded")
			}
			for _, path := range loaded.LoadedFrom {
				header.WriteString("\n# loaded from: " + path)
			}

			content, err := loaded.Config.ToYAMLWithHeader(header.String())
			if err != nil {
				return fmt.Errorf("render configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables prosidy reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()

			names := make([]string, 0, len(vars))
			width := 0
			for name := range vars {
				names = append(names, name)
				width = max(width, len(name))
			}
			slices.Sort(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				if _, err := fmt.Fprintf(out, "%-*s  %s\n", width, name, vars[name]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
