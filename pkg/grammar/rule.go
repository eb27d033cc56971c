// Package grammar matches Prosidy source text and produces a tree of rule
// pairs. It knows nothing about the document model; pkg/parser turns the
// pairs into AST values.
package grammar

// Rule names a node in the pair tree.
type Rule uint8

// Rules produced by the matcher. Whitespace, delimiters, tag labels and
// comments are matched silently and never appear as pairs.
const (
	Document Rule = iota
	Header
	Title
	DocumentProps
	Props
	Prop
	Key
	PropValue
	QuotedText
	BlockTag
	LiteralTag
	Literal
	Paragraph
	InlineTag
	SoftBreak
	PlainText
	Escape
	EOI
)

var ruleNames = [...]string{
	Document:      "document",
	Header:        "header",
	Title:         "title",
	DocumentProps: "document_props",
	Props:         "props",
	Prop:          "prop",
	Key:           "key",
	PropValue:     "prop_value",
	QuotedText:    "quoted_text",
	BlockTag:      "block_tag",
	LiteralTag:    "literal_tag",
	Literal:       "literal",
	Paragraph:     "paragraph",
	InlineTag:     "inline_tag",
	SoftBreak:     "soft_break",
	PlainText:     "plain_text",
	Escape:        "escape",
	EOI:           "EOI",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "unknown"
}
