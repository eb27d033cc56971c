package pretty

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/manifest"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 3 // PATH, TITLE, PROPERTIES
	minPathWidth     = 20
	minTitleWidth    = 20
	minPropsWidth    = 20
	heavySeparator   = "="
	defaultTermWidth = 100
	failedTitle      = "(failed)"
)

// TableRow represents a single row in the manifest table.
type TableRow struct {
	Path       string
	Title      string
	Properties string
	Failed     bool
}

// TableFormatter formats a manifest as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats the manifest entries, failures included, one per row.
func (t *TableFormatter) FormatTable(m *manifest.Manifest) string {
	if m == nil || len(m.Entries) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(m.Entries))
	for _, e := range m.Entries {
		rows = append(rows, EntryToTableRow(e))
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

type columnWidths struct {
	path  int
	title int
	props int
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		path:  minPathWidth,
		title: minTitleWidth,
		props: minPropsWidth,
	}

	for _, row := range rows {
		widths.path = max(widths.path, lipgloss.Width(row.Path))
		widths.title = max(widths.title, lipgloss.Width(row.Title))
		widths.props = max(widths.props, lipgloss.Width(row.Properties))
	}

	// Shrink properties first, then titles, then paths.
	if excess := t.totalWidth(widths) - t.termWidth; excess > 0 {
		widths.props = max(minPropsWidth, widths.props-excess)
	}
	if excess := t.totalWidth(widths) - t.termWidth; excess > 0 {
		widths.title = max(minTitleWidth, widths.title-excess)
	}
	if excess := t.totalWidth(widths) - t.termWidth; excess > 0 {
		widths.path = max(minPathWidth, widths.path-excess)
	}

	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.path + widths.title + widths.props + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.path, "PATH",
		widths.title, "TITLE",
		widths.props, "PROPERTIES",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := " " + padRight(truncateFilePath(row.Path, widths.path), widths.path) +
		"  " + padRight(truncateString(row.Title, widths.title), widths.title) +
		"  " + truncateString(row.Properties, widths.props)
	content = strings.TrimRight(content, " ")
	if row.Failed {
		return t.styles.TableFailedRow.Render(content)
	}
	return content
}

// EntryToTableRow converts a manifest entry to a table row. Properties are
// listed as flags followed by key=value settings, each group sorted.
func EntryToTableRow(e manifest.Entry) TableRow {
	if e.Meta == nil {
		return TableRow{Path: e.Path, Title: failedTitle, Failed: true}
	}
	return TableRow{
		Path:       e.Path,
		Title:      e.Meta.Title().String(),
		Properties: formatProps(e.Meta.Props()),
	}
}

func formatProps(props *ast.PropSet) string {
	var flags, settings []string
	for key := range props.Flags() {
		flags = append(flags, key.String())
	}
	for key, value := range props.Settings() {
		settings = append(settings, key.String()+"="+value.String())
	}
	slices.Sort(flags)
	slices.Sort(settings)
	return strings.Join(append(flags, settings...), " ")
}

// padRight pads str with spaces to a display width of width.
func padRight(str string, width int) string {
	if w := lipgloss.Width(str); w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// truncateString truncates a string to a display width of maxLen, adding
// "..." if truncated.
func truncateString(str string, maxLen int) string {
	if lipgloss.Width(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return takeWidth(str, maxLen)
	}
	return takeWidth(str, maxLen-3) + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if lipgloss.Width(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return takeWidthFromEnd(path, maxLen)
	}
	return "..." + takeWidthFromEnd(path, maxLen-3)
}

// takeWidth returns the longest prefix of str no wider than width.
func takeWidth(str string, width int) string {
	used := 0
	for i, r := range str {
		used += lipgloss.Width(string(r))
		if used > width {
			return str[:i]
		}
	}
	return str
}

// takeWidthFromEnd returns the longest suffix of str no wider than width.
func takeWidthFromEnd(str string, width int) string {
	runes := []rune(str)
	used := 0
	for i := len(runes) - 1; i >= 0; i-- {
		used += lipgloss.Width(string(runes[i]))
		if used > width {
			return string(runes[i+1:])
		}
	}
	return str
}
