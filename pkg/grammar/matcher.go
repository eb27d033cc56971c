package grammar

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/prosidy/pkg/ast"
)

// matcher is a backtracking PEG matcher over a string. Every rule method
// either advances pos and returns true, or leaves pos and out unchanged and
// returns false.
type matcher struct {
	src string
	pos int

	// out collects the pairs of the rule currently being matched.
	out []Pair

	depth    int
	maxDepth int
	tooDeep  bool

	// quiet suppresses expectation tracking inside lookaheads.
	quiet int

	failPos  int
	expected []string
}

func newMatcher(src string, maxDepth int) *matcher {
	return &matcher{src: src, maxDepth: maxDepth, failPos: -1}
}

// capture runs body as a new rule frame. On success the frame's pairs
// become the Inner of a new pair appended to the enclosing frame.
func (m *matcher) capture(rule Rule, body func() bool) bool {
	start, parent := m.pos, m.out
	m.out = nil

	if !body() {
		m.pos, m.out = start, parent
		return false
	}

	inner := m.out
	m.out = append(parent, Pair{Rule: rule, Span: Span{Start: start, End: m.pos}, Inner: inner, src: m.src})
	return true
}

// attempt runs body and rolls back pos and any pairs it produced if it
// fails.
func (m *matcher) attempt(body func() bool) bool {
	start, n := m.pos, len(m.out)
	if !body() {
		m.pos, m.out = start, m.out[:n]
		return false
	}
	return true
}

// lookahead reports whether body would match here without consuming input.
func (m *matcher) lookahead(body func() bool) bool {
	start, n := m.pos, len(m.out)
	m.quiet++
	ok := body()
	m.quiet--
	m.pos, m.out = start, m.out[:n]
	return ok
}

// enter tracks tag nesting. It fails once the depth limit is exceeded and
// from then on every tag fails, so the whole match fails.
func (m *matcher) enter() bool {
	if m.tooDeep {
		return false
	}
	m.depth++
	if m.maxDepth > 0 && m.depth > m.maxDepth {
		m.tooDeep = true
		m.failPos = m.pos
		return false
	}
	return true
}

func (m *matcher) leave() {
	m.depth--
}

// expect records that what was needed at the current position.
func (m *matcher) expect(what string) {
	if m.quiet > 0 || m.tooDeep {
		return
	}
	switch {
	case m.pos > m.failPos:
		m.failPos = m.pos
		m.expected = append(m.expected[:0], what)
	case m.pos == m.failPos && !slices.Contains(m.expected, what):
		m.expected = append(m.expected, what)
	}
}

func (m *matcher) eof() bool {
	return m.pos >= len(m.src)
}

func (m *matcher) peek(s string) bool {
	return strings.HasPrefix(m.src[m.pos:], s)
}

// lit consumes s.
func (m *matcher) lit(s string) bool {
	if m.peek(s) {
		m.pos += len(s)
		return true
	}
	m.expect("`" + s + "`")
	return false
}

// rune returns the rune at pos and its width, or (utf8.RuneError, 0) at
// the end of input.
func (m *matcher) rune() (rune, int) {
	if m.eof() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(m.src[m.pos:])
}

// ws consumes spaces and tabs.
func (m *matcher) ws() {
	for !m.eof() && (m.src[m.pos] == ' ' || m.src[m.pos] == '\t') {
		m.pos++
	}
}

// space consumes spaces, tabs and line breaks.
func (m *matcher) space() {
	for !m.eof() {
		switch m.src[m.pos] {
		case ' ', '\t', '\r', '\n':
			m.pos++
		default:
			return
		}
	}
}

// newline consumes LF or CRLF.
func (m *matcher) newline() bool {
	switch {
	case m.peek("\n"):
		m.pos++
		return true
	case m.peek("\r\n"):
		m.pos += 2
		return true
	}
	m.expect("end of line")
	return false
}

// comment consumes "##" up to the end of the line.
func (m *matcher) comment() bool {
	if !m.peek("##") {
		return false
	}
	for !m.eof() && m.src[m.pos] != '\n' && !m.peek("\r\n") {
		m.pos++
	}
	return true
}

// lineEnd consumes trailing whitespace, an optional comment and the line
// break, or accepts the end of input.
func (m *matcher) lineEnd() bool {
	return m.attempt(func() bool {
		m.ws()
		m.comment()
		if m.eof() {
			return true
		}
		return m.newline()
	})
}

// atLineEnd reports whether only whitespace or a comment remains on the
// current line.
func (m *matcher) atLineEnd() bool {
	if m.lookahead(m.lineEnd) {
		return true
	}
	m.expect("end of line")
	return false
}

// gap consumes blank and comment-only lines and the indentation of the
// following line.
func (m *matcher) gap() {
	for {
		start := m.pos
		m.ws()
		m.comment()
		if m.eof() || !m.lookahead(m.newline) {
			m.pos = start
			break
		}
		m.newline()
	}
	m.ws()
}

// name consumes an identifier without producing a pair.
func (m *matcher) name() bool {
	r, w := m.rune()
	if w == 0 || !ast.IsKeyStart(r) {
		m.expect("key")
		return false
	}
	m.pos += w
	for {
		r, w = m.rune()
		if w == 0 || !ast.IsKeyContinue(r) {
			return true
		}
		m.pos += w
	}
}

// label consumes an optional tag label and returns it.
func (m *matcher) label() string {
	start := m.pos
	for {
		r, w := m.rune()
		if w == 0 || !ast.IsKeyContinue(r) {
			return m.src[start:m.pos]
		}
		m.pos += w
	}
}
