package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/prosidy/pkg/manifest"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats scan statistics as a single line.
// Example: "12 headers in 14 files, 2 failed, 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats manifest.Stats) string {
	if stats.Discovered == 0 {
		return s.Dim.Render("No source files found") + "\n"
	}

	if stats.Failed == 0 {
		msg := s.Success.Render(fmt.Sprintf("%d %s", stats.Parsed, plural(stats.Parsed, "header", "headers"))) +
			s.Dim.Render(fmt.Sprintf(" (%d %s scanned)", stats.Discovered, plural(stats.Discovered, wordFile, wordFiles)))
		if stats.Skipped > 0 {
			msg += ", " + s.Dim.Render(fmt.Sprintf("%d skipped", stats.Skipped))
		}
		return msg + "\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s in %d %s",
			stats.Parsed, plural(stats.Parsed, "header", "headers"),
			stats.Discovered, plural(stats.Discovered, wordFile, wordFiles)),
		s.Error.Render(fmt.Sprintf("%d failed", stats.Failed)),
	}
	if stats.Skipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.Skipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats scan statistics as a summary block.
func (s *Styles) FormatSummary(stats manifest.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files scanned:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.Discovered)) + "\n")
	builder.WriteString("  Headers parsed:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.Parsed)) + "\n")

	if stats.Failed > 0 {
		builder.WriteString("  Failed:            " +
			s.Failure.Render(strconv.Itoa(stats.Failed)) + "\n")
	}
	if stats.Skipped > 0 {
		builder.WriteString("  Skipped:           " +
			s.Dim.Render(strconv.Itoa(stats.Skipped)) + "\n")
	}

	builder.WriteString("\n")

	if stats.Failed > 0 {
		builder.WriteString(s.Failure.Render("Manifest incomplete"))
	} else {
		builder.WriteString(s.Success.Render("Manifest complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
