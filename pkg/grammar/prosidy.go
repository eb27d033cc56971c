package grammar

import "slices"

// DefaultMaxDepth is the tag nesting limit used when Options leaves it
// unset.
const DefaultMaxDepth = 256

// Options controls matching.
type Options struct {
	// MaxDepth bounds how deeply tags may nest. Zero means DefaultMaxDepth;
	// a negative value disables the limit.
	MaxDepth int
}

// Parse matches src starting at entry and returns the resulting pairs.
//
// Supported entry rules are Document, which must consume the whole input,
// and Header, which matches only the document header and ignores the rest.
func Parse(entry Rule, src string, opts Options) ([]Pair, error) {
	maxDepth := opts.MaxDepth
	switch {
	case maxDepth == 0:
		maxDepth = DefaultMaxDepth
	case maxDepth < 0:
		maxDepth = 0
	}

	m := newMatcher(src, maxDepth)

	var ok bool
	switch entry {
	case Document:
		ok = m.document()
	case Header:
		ok = m.header()
	default:
		return nil, &SyntaxError{Message: "unsupported entry rule " + entry.String()}
	}

	if !ok {
		return nil, m.syntaxError()
	}
	return m.out, nil
}

func (m *matcher) syntaxError() *SyntaxError {
	offset := max(m.failPos, 0)
	err := &SyntaxError{
		Offset:   offset,
		Pos:      NewLineIndex(m.src).Position(offset),
		Expected: slices.Clone(m.expected),
	}
	if m.tooDeep {
		err.Message = "tags nested too deeply"
		err.Expected = nil
	}
	return err
}

// document = header blocks gap EOI
func (m *matcher) document() bool {
	return m.capture(Document, func() bool {
		m.header()
		m.blocks()
		m.gap()
		return m.capture(EOI, func() bool {
			if m.eof() {
				return true
			}
			m.expect("end of input")
			return false
		})
	})
}

// header = (title? document_props "---" line_end)?
//
// A header that is not closed by "---" matches as empty, leaving its lines
// to be read as body content.
func (m *matcher) header() bool {
	return m.capture(Header, func() bool {
		m.quiet++
		defer func() { m.quiet-- }()
		m.attempt(func() bool {
			m.gap()
			m.title()
			m.documentProps()
			m.gap()
			return m.lit("---") && m.lineEnd()
		})
		return true
	})
}

// title = "title" ":" header_value line_end
func (m *matcher) title() bool {
	return m.attempt(func() bool {
		start := m.pos
		if !m.name() || m.src[start:m.pos] != "title" {
			return false
		}
		m.ws()
		if !m.lit(":") {
			return false
		}
		m.ws()
		return m.capture(Title, m.headerValue) && m.lineEnd()
	})
}

// document_props = (gap prop_line)*
func (m *matcher) documentProps() bool {
	return m.capture(DocumentProps, func() bool {
		for m.attempt(func() bool {
			m.gap()
			return m.headerProp()
		}) {
		}
		return true
	})
}

// prop_line = key (":" prop_value)? line_end
func (m *matcher) headerProp() bool {
	return m.attempt(func() bool {
		ok := m.capture(Prop, func() bool {
			if !m.key() {
				return false
			}
			m.ws()
			if m.peek(":") {
				m.pos++
				m.ws()
				return m.capture(PropValue, m.headerValue)
			}
			return true
		})
		return ok && m.lineEnd()
	})
}

// headerValue matches the rest of the line, excluding trailing whitespace.
func (m *matcher) headerValue() bool {
	for !m.trailingSpace() {
		if m.escape() {
			continue
		}
		if !m.capture(PlainText, func() bool {
			return m.run(func(c byte) bool { return c != '\\' })
		}) {
			break
		}
	}
	return true
}

// trailingSpace reports whether only whitespace or a comment remains
// before the line break or the end of input.
func (m *matcher) trailingSpace() bool {
	return m.lookahead(func() bool {
		m.ws()
		m.comment()
		return m.eof() || m.newline()
	})
}

// run consumes bytes accepted by ok, stopping at line breaks and trailing
// whitespace. It fails if nothing was consumed. Each stretch of whitespace
// is checked for trailing once, then consumed whole.
func (m *matcher) run(ok func(c byte) bool) bool {
	start := m.pos
	for !m.eof() {
		c := m.src[m.pos]
		if c == '\n' || c == '\r' || !ok(c) {
			break
		}
		if c == ' ' || c == '\t' {
			if m.trailingSpace() {
				break
			}
			for !m.eof() && (m.src[m.pos] == ' ' || m.src[m.pos] == '\t') && ok(m.src[m.pos]) {
				m.pos++
			}
			continue
		}
		m.pos++
	}
	return m.pos > start
}

func (m *matcher) key() bool {
	return m.capture(Key, m.name)
}

// escape = "\" any
func (m *matcher) escape() bool {
	if !m.peek(`\`) {
		return false
	}
	return m.capture(Escape, func() bool {
		m.pos++
		_, w := m.rune()
		if w == 0 {
			m.expect("escaped character")
			return false
		}
		m.pos += w
		return true
	})
}

// props = "[" (prop ("," prop)* ","?)? "]"
func (m *matcher) props() bool {
	if !m.peek("[") {
		return false
	}
	return m.capture(Props, func() bool {
		m.pos++
		m.space()
		for m.prop() {
			m.space()
			if !m.peek(",") {
				break
			}
			m.pos++
			m.space()
		}
		m.space()
		return m.lit("]")
	})
}

// prop = key ("=" quoted_text)?
func (m *matcher) prop() bool {
	return m.capture(Prop, func() bool {
		if !m.key() {
			return false
		}
		m.attempt(func() bool {
			m.space()
			if !m.lit("=") {
				return false
			}
			m.space()
			return m.quotedText()
		})
		return true
	})
}

// quoted_text = "'" (escape | plain_text)* "'" | '"' (escape | plain_text)* '"'
func (m *matcher) quotedText() bool {
	var quote byte
	switch {
	case m.peek("'"):
		quote = '\''
	case m.peek(`"`):
		quote = '"'
	default:
		m.expect("quoted value")
		return false
	}

	return m.capture(QuotedText, func() bool {
		m.pos++
		for {
			if m.escape() {
				continue
			}
			start := m.pos
			for !m.eof() {
				c := m.src[m.pos]
				if c == quote || c == '\\' || c == '\n' || c == '\r' {
					break
				}
				m.pos++
			}
			if m.pos == start {
				break
			}
			m.out = append(m.out, Pair{Rule: PlainText, Span: Span{Start: start, End: m.pos}, src: m.src})
		}
		return m.lit(string(quote))
	})
}

// blocks = (gap block)*
func (m *matcher) blocks() {
	for m.attempt(func() bool {
		m.gap()
		return m.block()
	}) {
	}
}

// block = block_tag | literal_tag | paragraph
func (m *matcher) block() bool {
	return m.blockTag() || m.literalTag() || m.paragraph(true)
}

// block_tag = "#-" key props? (":" label line_end blocks gap "#:" label
//
//	| "{" paragraph? "}")?
func (m *matcher) blockTag() bool {
	if !m.peek("#-") {
		return false
	}
	if !m.enter() {
		return false
	}
	defer m.leave()

	return m.capture(BlockTag, func() bool {
		m.pos += 2
		if !m.key() {
			return false
		}
		m.props()

		switch {
		case m.peek(":"):
			m.pos++
			label := m.label()
			if !m.lineEnd() {
				return false
			}
			m.blocks()
			m.gap()
			if !m.closer(label) {
				return false
			}
		case m.peek("{"):
			if !m.braced() {
				return false
			}
		}
		return m.atLineEnd()
	})
}

// literal_tag = "#=" key props? ":" label line_end literal? "#:" label
func (m *matcher) literalTag() bool {
	if !m.peek("#=") {
		return false
	}
	return m.capture(LiteralTag, func() bool {
		m.pos += 2
		if !m.key() {
			return false
		}
		m.props()
		if !m.lit(":") {
			return false
		}
		label := m.label()
		if !m.lineEnd() {
			return false
		}

		start := m.pos
		for !m.lookahead(func() bool { m.ws(); return m.closer(label) }) {
			if m.eof() {
				m.expect("`#:" + label + "`")
				return false
			}
			for !m.eof() && m.src[m.pos] != '\n' {
				m.pos++
			}
			if !m.eof() {
				m.pos++
			}
		}
		if m.pos > start {
			m.out = append(m.out, Pair{Rule: Literal, Span: Span{Start: start, End: m.pos}, src: m.src})
		}

		m.ws()
		return m.closer(label)
	})
}

// closer matches "#:" followed by exactly label and the end of the line.
func (m *matcher) closer(label string) bool {
	return m.attempt(func() bool {
		if !m.lit("#:" + label) {
			return false
		}
		if m.label() != "" {
			m.expect("`#:" + label + "`")
			return false
		}
		return m.atLineEnd()
	})
}

// braced = "{" paragraph? "}"
func (m *matcher) braced() bool {
	return m.attempt(func() bool {
		if !m.lit("{") {
			return false
		}
		m.edgeSpace()
		m.paragraph(false)
		m.edgeSpace()
		return m.lit("}")
	})
}

// edgeSpace absorbs whitespace and at most one line break just inside
// braces.
func (m *matcher) edgeSpace() {
	m.ws()
	if m.lookahead(m.newline) {
		m.newline()
		m.ws()
	}
}

// paragraph = (soft_break | inline_tag | text)+
//
// At block level a paragraph may not start like a block tag, a literal tag
// or a closer.
func (m *matcher) paragraph(blockLevel bool) bool {
	if blockLevel && (m.peek("#-") || m.peek("#=") || m.peek("#:")) {
		return false
	}
	return m.capture(Paragraph, func() bool {
		n := 0
		for {
			switch {
			case m.attempt(func() bool { m.ws(); return m.comment() }):
				continue
			case m.softBreak(), m.inlineTag(), m.escape(), m.plainText():
				n++
			default:
				return n > 0
			}
		}
	})
}

// soft_break = ws newline (ws comment newline)* ws, when the next line
// continues the paragraph.
func (m *matcher) softBreak() bool {
	return m.capture(SoftBreak, func() bool {
		m.ws()
		if !m.newline() {
			return false
		}
		for m.attempt(func() bool {
			m.ws()
			return m.comment() && m.newline()
		}) {
		}
		m.ws()
		if m.eof() || m.lookahead(m.newline) {
			return false
		}
		return !m.peek("#-") && !m.peek("#=") && !m.peek("#:") && !m.peek("}")
	})
}

// plain_text = (!("\" | "#" | "{" | "}" | newline) any)+
func (m *matcher) plainText() bool {
	return m.capture(PlainText, func() bool {
		return m.run(func(c byte) bool {
			return c != '\\' && c != '#' && c != '{' && c != '}'
		})
	})
}

// inline_tag = "#" key props? ("{" paragraph? "}")?
func (m *matcher) inlineTag() bool {
	if !m.peek("#") || m.peek("##") {
		return false
	}
	if !m.enter() {
		return false
	}
	defer m.leave()

	return m.capture(InlineTag, func() bool {
		m.pos++
		if !m.key() {
			return false
		}
		m.props()
		if m.peek("{") {
			return m.braced()
		}
		return true
	})
}
