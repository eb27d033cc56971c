package grammar

import (
	"fmt"
	"sort"
)

// Span is a byte range in the source.
type Span struct {
	// Start is the byte index where the range begins (inclusive).
	Start int

	// End is the byte index where the range ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position is a 1-based line and column. Columns count bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type lineInfo struct {
	start   int // first byte of the line
	newline int // first byte of the line terminator, or end of input
	end     int // first byte of the next line
}

// LineIndex maps byte offsets to positions. It handles LF and CRLF.
type LineIndex struct {
	src   string
	lines []lineInfo
}

// NewLineIndex builds the index for src.
func NewLineIndex(src string) *LineIndex {
	idx := &LineIndex{src: src}
	lineStart := 0

	for i := range len(src) {
		if src[i] != '\n' {
			continue
		}
		newline := i
		if i > 0 && src[i-1] == '\r' {
			newline = i - 1
		}
		idx.lines = append(idx.lines, lineInfo{start: lineStart, newline: newline, end: i + 1})
		lineStart = i + 1
	}
	idx.lines = append(idx.lines, lineInfo{start: lineStart, newline: len(src), end: len(src)})

	return idx
}

// LineCount returns the number of lines.
func (idx *LineIndex) LineCount() int {
	return len(idx.lines)
}

// Position converts a byte offset to a line and column. Offsets past the
// end map to the end of the last line.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.src) {
		offset = len(idx.src)
	}

	line := sort.Search(len(idx.lines), func(i int) bool {
		return idx.lines[i].end > offset
	})
	if line >= len(idx.lines) {
		line = len(idx.lines) - 1
	}

	return Position{Line: line + 1, Column: offset - idx.lines[line].start + 1}
}

// Line returns the content of a 1-based line without its terminator.
func (idx *LineIndex) Line(n int) string {
	if n < 1 || n > len(idx.lines) {
		return ""
	}
	l := idx.lines[n-1]
	return idx.src[l.start:l.newline]
}
