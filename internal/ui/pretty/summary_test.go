package pretty_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prosidy/internal/ui/pretty"
	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/manifest"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	t.Run("with failures", func(t *testing.T) {
		t.Parallel()

		result := styles.FormatSummary(manifest.Stats{Discovered: 10, Parsed: 8, Failed: 2, Skipped: 1})

		assert.Contains(t, result, "Summary")
		assert.Contains(t, result, "Files scanned:     10")
		assert.Contains(t, result, "Headers parsed:    8")
		assert.Contains(t, result, "Failed:            2")
		assert.Contains(t, result, "Skipped:           1")
		assert.Contains(t, result, "Manifest incomplete")
	})

	t.Run("clean", func(t *testing.T) {
		t.Parallel()

		result := styles.FormatSummary(manifest.Stats{Discovered: 3, Parsed: 3})

		assert.Contains(t, result, "Manifest complete")
		assert.NotContains(t, result, "Failed:")
		assert.NotContains(t, result, "Skipped:")
	})
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats manifest.Stats
		want  string
	}{
		{
			name: "nothing found",
			want: "No source files found\n",
		},
		{
			name:  "single file",
			stats: manifest.Stats{Discovered: 1, Parsed: 1},
			want:  "1 header (1 file scanned)\n",
		},
		{
			name:  "clean with skips",
			stats: manifest.Stats{Discovered: 4, Parsed: 4, Skipped: 2},
			want:  "4 headers (4 files scanned), 2 skipped\n",
		},
		{
			name:  "failures",
			stats: manifest.Stats{Discovered: 5, Parsed: 3, Failed: 2, Skipped: 1},
			want:  "3 headers in 5 files, 2 failed, 1 skipped\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	props := ast.NewPropSet()
	props.Set(ast.Intern("draft"))
	props.Put(ast.Intern("lang"), ast.Borrow("en"))
	props.Put(ast.Intern("author"), ast.Borrow("Ann"))
	meta := ast.NewMeta(ast.Borrow("Alpha"), props)

	m := &manifest.Manifest{
		Entries: []manifest.Entry{
			{Path: "a.pro", Meta: &meta},
			{Path: "broken.pro", Err: errors.New("bad")},
		},
	}

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	got := formatter.FormatTable(m)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], " PATH"))
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[0], "PROPERTIES")
	assert.Equal(t, strings.Repeat("=", 66), lines[1])
	assert.Regexp(t, `^ a\.pro\s+Alpha\s+draft author=Ann lang=en$`, lines[2])
	assert.Regexp(t, `^ broken\.pro\s+\(failed\)$`, lines[3])
	assert.Equal(t, lines[1], lines[4])

	assert.Empty(t, formatter.FormatTable(&manifest.Manifest{}))
}

func TestFormatTable_NonASCIIAlignment(t *testing.T) {
	t.Parallel()

	ascii := ast.NewMeta(ast.Borrow("Alpha"), ast.NewPropSet())
	ruProps := ast.NewPropSet()
	ruProps.Put(ast.Intern("ru"), ast.Borrow("еще"))
	cyrillic := ast.NewMeta(ast.Borrow("Заголовок документа"), ruProps)

	m := &manifest.Manifest{
		Entries: []manifest.Entry{
			{Path: "a.pro", Meta: &ascii},
			{Path: "документы/длинное-имя-файла.pro", Meta: &cyrillic},
		},
	}

	got := pretty.NewTableFormatter(pretty.NewStyles(false), 0).FormatTable(m)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 5)

	column := func(line, cell string) int {
		idx := strings.Index(line, cell)
		require.GreaterOrEqual(t, idx, 0, "%q not in %q", cell, line)
		return lipgloss.Width(line[:idx])
	}

	titleCol := column(lines[0], "TITLE")
	assert.Equal(t, titleCol, column(lines[2], "Alpha"))
	assert.Equal(t, titleCol, column(lines[3], "Заголовок"))
	assert.Equal(t, column(lines[0], "PROPERTIES"), column(lines[3], "ru=еще"))
	assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(lines[1]))
}

func TestEntryToTableRow_TruncatesByWidth(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ж", 200)
	meta := ast.NewMeta(ast.Borrow(long), ast.NewPropSet())
	m := &manifest.Manifest{Entries: []manifest.Entry{{Path: "dir/" + long + ".pro", Meta: &meta}}}

	got := pretty.NewTableFormatter(pretty.NewStyles(false), 80).FormatTable(m)
	for line := range strings.SplitSeq(strings.TrimSuffix(got, "\n"), "\n") {
		assert.True(t, utf8.ValidString(line), "truncation split a rune: %q", line)
		assert.LessOrEqual(t, lipgloss.Width(line), 2+200+2+20+2+20, "line too wide: %q", line)
	}
	assert.Contains(t, got, "...")
	assert.Contains(t, got, "ж.pro")
}

func TestEntryToTableRow_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 200)
	meta := ast.NewMeta(ast.Borrow(long), ast.NewPropSet())
	m := &manifest.Manifest{Entries: []manifest.Entry{{Path: "dir/" + long + ".pro", Meta: &meta}}}

	got := pretty.NewTableFormatter(pretty.NewStyles(false), 80).FormatTable(m)
	for line := range strings.SplitSeq(strings.TrimSuffix(got, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 2+200+2+20+2+20, "line too wide: %q", line)
	}
	assert.Contains(t, got, "...")
	assert.Contains(t, got, ".pro")
}
