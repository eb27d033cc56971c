package ast

// InlineKind identifies the variant held by an Inline.
type InlineKind uint8

// Inline variants.
const (
	InlineSoftBreak InlineKind = iota
	InlineTagged
	InlineText
	InlineLiteral
)

var inlineKindNames = [...]string{
	InlineSoftBreak: "soft_break",
	InlineTagged:    "tag",
	InlineText:      "text",
	InlineLiteral:   "literal",
}

func (k InlineKind) String() string {
	if int(k) < len(inlineKindNames) {
		return inlineKindNames[k]
	}
	return "unknown"
}

// Inline is a paragraph-level node.
type Inline struct {
	kind    InlineKind
	text    Text
	literal Literal
	tag     *InlineTag
}

// SoftBreak creates a line break within a paragraph.
func SoftBreak() Inline {
	return Inline{kind: InlineSoftBreak}
}

// TextInline creates a run of text.
func TextInline(t Text) Inline {
	return Inline{kind: InlineText, text: t}
}

// LiteralInline creates an inline literal.
func LiteralInline(lit Literal) Inline {
	return Inline{kind: InlineLiteral, literal: lit}
}

// TagInline creates an inline holding a tag.
func TagInline(tag *InlineTag) Inline {
	return Inline{kind: InlineTagged, tag: tag}
}

// Kind returns the variant.
func (i *Inline) Kind() InlineKind { return i.kind }

// Text returns the text when the item is text.
func (i *Inline) Text() (Text, bool) {
	return i.text, i.kind == InlineText
}

// Literal returns the literal when the item is a literal.
func (i *Inline) Literal() (Literal, bool) {
	return i.literal, i.kind == InlineLiteral
}

// Tag returns the tag when the item is a tag.
func (i *Inline) Tag() (*InlineTag, bool) {
	return i.tag, i.kind == InlineTagged
}
