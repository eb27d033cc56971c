package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/internal/ui/pretty"
	"github.com/yaklabco/prosidy/pkg/config"
	"github.com/yaklabco/prosidy/pkg/manifest"
	"github.com/yaklabco/prosidy/pkg/parser"
)

type manifestFlags struct {
	output          string
	format          string
	jobs            int
	extensions      []string
	ignore          []string
	followSymlinks  bool
	includeVendored bool
	table           bool
}

func newManifestCommand() *cobra.Command {
	flags := &manifestFlags{}

	cmd := &cobra.Command{
		Use:   "manifest [dir]",
		Short: "Collect the headers of every document under a directory",
		Long:  manifestLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runManifest(cmd, root, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: json, cbor, yaml, xml")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.extensions, "extensions", nil, "source file extensions (default: .pro)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "scan symlinked files and directories")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "scan vendored directories such as node_modules/")
	cmd.Flags().BoolVar(&flags.table, "table", false, "print a table and summary instead of structured output")

	return cmd
}

const manifestLongDescription = `Walk a directory, parse the header of every Prosidy document and write
a manifest keyed by relative path.

Files whose header fails to parse are reported on stderr and make the
command exit non-zero; the manifest of the remaining files is still
written.

Examples:
  prosidy manifest                      # JSON manifest of the current directory
  prosidy manifest docs/ -o index.xml   # XML manifest, inferred from extension
  prosidy manifest --table              # Human-readable table
  prosidy manifest --ignore 'drafts/**' # Skip a subtree`

func runManifest(cmd *cobra.Command, root string, flags *manifestFlags) error {
	withLogFields(cmd, logging.FieldRoot, root)
	logger := commandLogger(cmd)

	loaded, err := loadConfig(cmd, flags.toConfig(cmd))
	if err != nil {
		return err
	}
	cfg := loaded.Config

	prs := parser.New(parser.WithLogger(logger), parser.WithMaxDepth(cfg.MaxDepth))

	m, err := manifest.Scan(commandContext(cmd), manifest.Options{
		Root:            root,
		Extensions:      cfg.Manifest.Extensions,
		Ignore:          cfg.Manifest.Ignore,
		FollowSymlinks:  config.BoolValue(cfg.Manifest.FollowSymlinks),
		IncludeVendored: config.BoolValue(cfg.Manifest.IncludeVendored),
		Jobs:            cfg.Manifest.Jobs,
		Parser:          prs,
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	styles := errorStyles(cmd)
	for _, failure := range m.Failures() {
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatParseError(failure.Err, failure.Path, failure.Source))
	}

	if flags.table {
		writeManifestTable(cmd, m)
	} else {
		if err := writeManifest(cmd, cfg, flags.output, m); err != nil {
			return err
		}
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSummaryOneLine(m.Stats))
	}

	if m.HasFailures() {
		return fmt.Errorf("%w: %d of %d files", ErrParseFailed, m.Stats.Failed, m.Stats.Discovered)
	}
	return nil
}

func writeManifest(cmd *cobra.Command, cfg *config.Config, output string, m *manifest.Manifest) error {
	logger := commandLogger(cmd)

	format, err := resolveFormat(cmd, cfg, output, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	if output == "" || output == stdio {
		if err := refuseBinaryToTerminal(cmd.OutOrStdout(), format); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := manifest.Write(&buf, format, m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	return writeOutput(cmd, output, buf.Bytes(), logger)
}

func writeManifestTable(cmd *cobra.Command, m *manifest.Manifest) {
	out := cmd.OutOrStdout()

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	width := 0
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}

	fmt.Fprint(out, pretty.NewTableFormatter(styles, width).FormatTable(m))
	fmt.Fprint(out, styles.FormatSummary(m.Stats))
}

// toConfig collects the flags the user actually set.
func (f *manifestFlags) toConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}

	if cmd.Flags().Changed("format") {
		cfg.Format = f.format
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Manifest.Jobs = f.jobs
	}
	if cmd.Flags().Changed("extensions") {
		cfg.Manifest.Extensions = f.extensions
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Manifest.Ignore = f.ignore
	}
	if cmd.Flags().Changed("follow-symlinks") {
		cfg.Manifest.FollowSymlinks = config.Bool(f.followSymlinks)
	}
	if cmd.Flags().Changed("include-vendored") {
		cfg.Manifest.IncludeVendored = config.Bool(f.includeVendored)
	}

	return cfg
}
