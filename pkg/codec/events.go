package codec

import (
	"iter"

	"github.com/yaklabco/prosidy/pkg/ast"
)

// Reserved vocabulary of the event stream. Downstream stylesheets match on
// these names, so they must not change.
const (
	ReservedPrefix = "prosidy"
	ReservedURI    = "https://prosidy.org/schema/prosidy.xsd"

	localDocument    = "document"
	localParagraph   = "paragraph"
	localLiteral     = "literal"
	localLiteralText = "literal-text"
	localSoftBreak   = "softbreak"
	localTitle       = "title"
)

// EventKind identifies the shape of an Event.
type EventKind uint8

// Event kinds.
const (
	EventStart EventKind = iota
	EventEnd
	EventText
	EventEmpty
	EventProcInst
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventText:
		return "text"
	case EventEmpty:
		return "empty"
	case EventProcInst:
		return "procinst"
	default:
		return "unknown"
	}
}

// Name is a possibly prefixed element or attribute name.
type Name struct {
	Prefix string
	Local  string
}

func (n Name) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Attr is a single attribute of a start or empty event.
type Attr struct {
	Name  Name
	Value string
}

// Event is one structural event.
//
// Start and Empty events carry Name and Attrs, End events carry Name, Text
// events carry Text, and ProcInst events carry Target and Inst.
type Event struct {
	Kind   EventKind
	Name   Name
	Attrs  []Attr
	Text   string
	Target string
	Inst   string
}

// Namespace qualifies user tag and property names.
type Namespace struct {
	Prefix string
	URI    string
}

// Options configures event generation.
type Options struct {
	// Stylesheets are emitted as xml-stylesheet processing instructions
	// ahead of the root element.
	Stylesheets []string
	// Namespace, when set, prefixes every user tag and property name and
	// is declared on the root element.
	Namespace *Namespace
	// Pretty indents structured output. The event stream ignores it, since
	// added whitespace would change mixed content.
	Pretty bool
}

type itemKind uint8

const (
	itemNode itemKind = iota
	itemClose
	itemText
	itemProcInst
)

type item struct {
	kind itemKind
	node ast.Node
	name Name
	text string
}

// Encoder produces the event stream of a document on demand. Its memory use
// is bounded by the number of pending siblings along the current path,
// never by recursion depth.
type Encoder struct {
	stack   []item
	scratch []ast.Node
	prefix  string
	ns      *Namespace
}

// NewEncoder returns an encoder positioned before the first event of doc.
func NewEncoder(doc *ast.Document, opts Options) *Encoder {
	enc := &Encoder{
		stack: make([]item, 0, 64),
		ns:    opts.Namespace,
	}
	if opts.Namespace != nil {
		enc.prefix = opts.Namespace.Prefix
	}

	enc.stack = append(enc.stack, item{kind: itemNode, node: ast.DocumentNode(doc)})
	for i := len(opts.Stylesheets) - 1; i >= 0; i-- {
		enc.stack = append(enc.stack, item{
			kind: itemProcInst,
			text: `type="text/xsl" href="` + escapeAttr(opts.Stylesheets[i]) + `"`,
		})
	}
	return enc
}

// Next returns the next event, or false once the stream is exhausted.
func (e *Encoder) Next() (Event, bool) {
	if len(e.stack) == 0 {
		return Event{}, false
	}

	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	switch top.kind {
	case itemClose:
		return Event{Kind: EventEnd, Name: top.name}, true
	case itemText:
		return Event{Kind: EventText, Text: top.text}, true
	case itemProcInst:
		return Event{Kind: EventProcInst, Target: "xml-stylesheet", Inst: top.text}, true
	default:
		return e.open(top.node), true
	}
}

// All ranges over the remaining events.
func (e *Encoder) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := e.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// open emits the opening event of node and schedules its children and
// closing event.
func (e *Encoder) open(node ast.Node) Event {
	name, attrs, text, isText := e.describe(node)
	if isText {
		return Event{Kind: EventText, Text: text}
	}

	if lit, ok := literalOf(node); ok {
		if lit.Text().IsEmpty() {
			return Event{Kind: EventEmpty, Name: name, Attrs: attrs}
		}
		e.stack = append(e.stack,
			item{kind: itemClose, name: name},
			item{kind: itemText, text: lit.String()},
		)
		return Event{Kind: EventStart, Name: name, Attrs: attrs}
	}

	if node.ChildCount() == 0 {
		return Event{Kind: EventEmpty, Name: name, Attrs: attrs}
	}

	e.stack = append(e.stack, item{kind: itemClose, name: name})
	e.scratch = node.PushChildren(e.scratch[:0])
	for _, child := range e.scratch {
		e.stack = append(e.stack, item{kind: itemNode, node: child})
	}
	clear(e.scratch)
	return Event{Kind: EventStart, Name: name, Attrs: attrs}
}

// describe returns the element name and attributes for node, or its text
// when the node renders as character data.
func (e *Encoder) describe(node ast.Node) (Name, []Attr, string, bool) {
	if doc, ok := node.Document(); ok {
		return reserved(localDocument), e.rootAttrs(doc), "", false
	}

	if block, ok := node.Block(); ok {
		switch block.Kind() {
		case ast.BlockContent:
			return reserved(localParagraph), nil, "", false
		case ast.BlockLiteral:
			return reserved(localLiteral), nil, "", false
		default:
			tag, _ := block.Tag()
			return e.userName(tag.Name()), Attrs(tag.Props(), e.prefix), "", false
		}
	}

	inline, _ := node.Inline()
	switch inline.Kind() {
	case ast.InlineText:
		t, _ := inline.Text()
		return Name{}, nil, t.String(), true
	case ast.InlineSoftBreak:
		return reserved(localSoftBreak), nil, "", false
	case ast.InlineLiteral:
		return reserved(localLiteralText), nil, "", false
	default:
		tag, _ := inline.Tag()
		return e.userName(tag.Name()), Attrs(tag.Props(), e.prefix), "", false
	}
}

func (e *Encoder) rootAttrs(doc *ast.Document) []Attr {
	attrs := []Attr{{Name: Name{Prefix: "xmlns", Local: ReservedPrefix}, Value: ReservedURI}}
	if e.ns != nil && e.ns.Prefix != "" && e.ns.Prefix != ReservedPrefix {
		attrs = append(attrs, Attr{Name: Name{Prefix: "xmlns", Local: e.ns.Prefix}, Value: e.ns.URI})
	}
	attrs = append(attrs, Attr{Name: reserved(localTitle), Value: doc.Title().String()})
	return append(attrs, Attrs(doc.Props(), e.prefix)...)
}

func (e *Encoder) userName(key ast.Key) Name {
	return Name{Prefix: e.prefix, Local: key.String()}
}

func reserved(local string) Name {
	return Name{Prefix: ReservedPrefix, Local: local}
}

func literalOf(node ast.Node) (ast.Literal, bool) {
	if block, ok := node.Block(); ok {
		return block.Literal()
	}
	if inline, ok := node.Inline(); ok {
		return inline.Literal()
	}
	return ast.Literal{}, false
}

// Attrs renders a property set as attributes sorted by name. Flags carry an
// empty value. A key that is both a flag and a setting yields a single
// attribute with the setting's value.
func Attrs(props *ast.PropSet, prefix string) []Attr {
	sorted := props.Sorted()
	if len(sorted) == 0 {
		return nil
	}

	attrs := make([]Attr, 0, len(sorted))
	for i, p := range sorted {
		if !p.HasValue && i+1 < len(sorted) && sorted[i+1].Key.String() == p.Key.String() {
			continue
		}
		attrs = append(attrs, Attr{
			Name:  Name{Prefix: prefix, Local: p.Key.String()},
			Value: p.Value.String(),
		})
	}
	return attrs
}

func escapeAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := range len(s) {
		switch c := s[i]; c {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		case '"':
			out = append(out, "&quot;"...)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
