package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/codec"
	"github.com/yaklabco/prosidy/pkg/config"
	"github.com/yaklabco/prosidy/pkg/fsutil"
	"github.com/yaklabco/prosidy/pkg/parser"
)

type compileFlags struct {
	output   string
	format   string
	pretty   bool
	xslt     []string
	xmlns    string
	maxDepth int
}

func newCompileCommand() *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "compile [input]",
		Short: "Compile a Prosidy document",
		Long:  compileLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := stdio
			if len(args) == 1 {
				input = args[0]
			}
			return runCompile(cmd, input, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: json, cbor, yaml, xml")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringArrayVar(&flags.xslt, "xslt", nil, "attach an XSLT stylesheet to XML output (repeatable)")
	cmd.Flags().StringVar(&flags.xmlns, "xmlns", "", "declare PREFIX=URI and put user tags in it (XML output)")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", config.DefaultMaxDepth, "maximum tag nesting depth (negative = unlimited)")

	return cmd
}

const compileLongDescription = `Parse a Prosidy document and write it as JSON, CBOR, YAML or XML.

The input defaults to stdin and the output to stdout. When --format is not
given it is inferred from the output file extension, then from the
configuration, and falls back to JSON.

Examples:
  prosidy compile doc.pro                      # JSON to stdout
  prosidy compile doc.pro -o doc.xml           # XML, inferred from extension
  prosidy compile -f yaml < doc.pro            # YAML from stdin
  prosidy compile doc.pro -o doc.cbor          # CBOR to a file
  prosidy compile doc.pro -f xml --xslt a.xsl  # XML with a stylesheet
  prosidy compile doc.pro -f xml --xmlns ex=https://example.com/ns`

func runCompile(cmd *cobra.Command, input string, flags *compileFlags) error {
	withLogFields(cmd, logging.FieldInput, displayName(input))
	logger := commandLogger(cmd)

	cliCfg, err := flags.toConfig(cmd)
	if err != nil {
		return err
	}

	loaded, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	format, err := resolveFormat(cmd, cfg, flags.output, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	if flags.output == "" || flags.output == stdio {
		if err := refuseBinaryToTerminal(cmd.OutOrStdout(), format); err != nil {
			return err
		}
	}

	src, err := readSource(cmd, input)
	if err != nil {
		return err
	}

	doc, err := parseSource(cmd, input, src, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, format, doc, codecOptions(cfg)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	logger.Debug("compiled document",
		logging.FieldFormat, format,
		logging.FieldBytes, buf.Len(),
	)

	return writeOutput(cmd, flags.output, buf.Bytes(), logger)
}

// toConfig collects the flags the user actually set.
func (f *compileFlags) toConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}

	if cmd.Flags().Changed("format") {
		cfg.Format = f.format
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Pretty = config.Bool(f.pretty)
	}
	if cmd.Flags().Changed("xslt") {
		cfg.Stylesheets = f.xslt
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if cmd.Flags().Changed("xmlns") {
		ns, err := parseXMLNS(f.xmlns)
		if err != nil {
			return nil, err
		}
		cfg.Namespace = ns
	}

	return cfg, nil
}

// parseXMLNS splits a PREFIX=URI flag value.
func parseXMLNS(value string) (config.NamespaceConfig, error) {
	prefix, uri, ok := strings.Cut(value, "=")
	if !ok || prefix == "" || uri == "" {
		return config.NamespaceConfig{}, fmt.Errorf("%w: --xmlns expects PREFIX=URI, got %q", ErrInvalidUsage, value)
	}
	return config.NamespaceConfig{Prefix: prefix, URI: uri}, nil
}

// readSource reads and decodes a file, or stdin for "-".
func readSource(cmd *cobra.Command, input string) (string, error) {
	var (
		data []byte
		err  error
	)
	if input == stdio {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, _, err = fsutil.ReadFile(commandContext(cmd), input)
		if err != nil {
			return "", err
		}
	}

	src, err := parser.DecodeSource(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", displayName(input), err)
	}
	return src, nil
}

// parseSource parses src, rendering any failure to stderr.
func parseSource(cmd *cobra.Command, input, src string, cfg *config.Config) (*ast.Document, error) {
	logger := commandLogger(cmd)
	prs := parser.New(parser.WithLogger(logger), parser.WithMaxDepth(cfg.MaxDepth))

	start := time.Now()
	doc, err := prs.ParseDocument(src)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), errorStyles(cmd).FormatParseError(err, displayName(input), src))
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, displayName(input))
	}

	logger.Debug("parsed document",
		logging.FieldBytes, len(src),
		logging.FieldDuration, time.Since(start),
	)
	return doc, nil
}

func displayName(input string) string {
	if input == stdio {
		return "<stdin>"
	}
	return input
}
