package pretty

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/prosidy/pkg/grammar"
	"github.com/yaklabco/prosidy/pkg/parser"
)

// sourceIndent aligns source context under the error line.
const sourceIndent = "        "

// FormatParseError renders err against the decoded source it came from.
// Parse errors get a path:line:col header, the offending source line with
// a caret, and the rule trace. Other errors are rendered as a single line.
func (s *Styles) FormatParseError(err error, path, source string) string {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		return fmt.Sprintf("  %s  %s  %s\n",
			s.FilePath.Render(path), s.Error.Render("error"), s.Message.Render(err.Error()))
	}

	idx := grammar.NewLineIndex(source)
	trace := perr.Trace()

	offset, located := errorOffset(perr, trace)

	var builder strings.Builder

	location := s.FilePath.Render(path)
	if located {
		location += s.Location.Render(":" + idx.Position(offset).String())
	}
	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location, s.Error.Render(perr.Kind.String()), s.Message.Render(message(perr))))

	if located {
		pos := idx.Position(offset)
		line := idx.Line(pos.Line)
		builder.WriteString(s.FormatSourceContext(line, caretColumn(line, pos.Column)))
	}

	for _, loc := range trace {
		start := idx.Position(loc.Span.Start)
		end := idx.Position(loc.Span.End)
		builder.WriteString(fmt.Sprintf("    %s %s %s\n",
			s.Dim.Render("in rule"),
			s.Rule.Render(loc.Rule.String()),
			s.Dim.Render(fmt.Sprintf("at %s..%s", start, end))))
	}

	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker under
// the 1-based rune column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(sourceIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := sourceIndent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// errorOffset picks the byte offset to point at: the syntax error position,
// or the start of the innermost traced rule.
func errorOffset(perr *parser.Error, trace []parser.Location) (int, bool) {
	var syntaxErr *grammar.SyntaxError
	if errors.As(perr.Err, &syntaxErr) {
		return syntaxErr.Offset, true
	}
	if len(trace) > 0 {
		return trace[len(trace)-1].Span.Start, true
	}
	return 0, false
}

// message strips the position prefix grammar errors carry, since the
// header already shows it.
func message(perr *parser.Error) string {
	var syntaxErr *grammar.SyntaxError
	if errors.As(perr.Err, &syntaxErr) {
		switch {
		case syntaxErr.Message != "":
			return syntaxErr.Message
		case len(syntaxErr.Expected) == 1:
			return "expected " + syntaxErr.Expected[0]
		case len(syntaxErr.Expected) > 1:
			return "expected one of " + strings.Join(syntaxErr.Expected, ", ")
		}
	}
	return perr.Message()
}

// caretColumn converts a 1-based byte column into a rune column so the
// caret lines up under multi-byte text.
func caretColumn(line string, byteColumn int) int {
	n := min(byteColumn-1, len(line))
	if n < 0 {
		n = 0
	}
	return utf8.RuneCountInString(line[:n]) + 1
}
