package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/prosidy/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
			Dim:         plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage for Cobra commands.
type HelpFormatter struct {
	colorMode string
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter. colorMode is the default used
// when the command being described has no --color flag set.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

// stylesFor resolves colors at render time, after flags are parsed.
func (h *HelpFormatter) stylesFor(cmd *cobra.Command) *HelpStyles {
	mode := h.colorMode
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		mode = flag.Value.String()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, h.writer))
}

func (h *HelpFormatter) funcs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"styleCommand":     styles.Command.Render,
		"styleHeading":     styles.Heading.Render,
		"styleSubcommand":  styles.Subcommand.Render,
		"styleDescription": styles.Description.Render,
		"styleExample":     styles.Example.Render,
		"styleDim":         styles.Dim.Render,
		"styleFlags": func(flags *pflag.FlagSet) string {
			return styleFlagUsages(styles, flags.FlagUsages())
		},
		"rpad": rpad,
		"trim": trimTrailingWhitespaces,
		"join": strings.Join,
	}
}

const usageTemplate = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleDim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + usageTemplate

// ApplyToCommand installs the styled templates on cmd. Subcommands inherit
// them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command, "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(cmd *cobra.Command, name, text string) error {
	tmpl, err := template.New(name).Funcs(h.funcs(h.stylesFor(cmd))).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl.Execute(cmd.OutOrStdout(), cmd)
}

// styleFlagUsages colors the flag names in pflag's usage listing. Lines
// are "  -f, --flag type   description"; the description starts after the
// first run of two or more spaces.
func styleFlagUsages(styles *HelpStyles, usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]

		flagPart, desc, ok := strings.Cut(trimmed, "  ")
		if !ok {
			continue
		}

		var styled []string
		for _, token := range strings.Fields(flagPart) {
			name, comma := strings.CutSuffix(token, ",")
			if strings.HasPrefix(name, "-") {
				name = styles.Flag.Render(name)
			} else {
				name = styles.Dim.Render(name)
			}
			if comma {
				name += ","
			}
			styled = append(styled, name)
		}

		lines[i] = indent + strings.Join(styled, " ") + "   " +
			styles.Description.Render(strings.TrimLeft(desc, " "))
	}
	return strings.Join(lines, "\n")
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
