package ast

// Literal is raw text exempt from markup interpretation.
type Literal struct {
	text Text
}

// NewLiteral wraps t as a literal.
func NewLiteral(t Text) Literal {
	return Literal{text: t}
}

// Text returns the raw content.
func (l Literal) Text() Text { return l.text }

// String returns the raw content as a string.
func (l Literal) String() string { return l.text.String() }

// Equal compares content.
func (l Literal) Equal(other Literal) bool { return l.text.Equal(other.text) }

// Meta is the document header: a title and the document's properties.
type Meta struct {
	title Text
	props PropSet
}

// NewMeta creates a header.
func NewMeta(title Text, props PropSet) Meta {
	return Meta{title: title, props: props}
}

// Title returns the document title.
func (m *Meta) Title() Text { return m.title }

// SetTitle replaces the document title.
func (m *Meta) SetTitle(title Text) { m.title = title }

// Props returns the header properties for reading or mutation.
func (m *Meta) Props() *PropSet { return &m.props }

// SetProps replaces the header properties.
func (m *Meta) SetProps(props PropSet) { m.props = props }

// IntoOwned converts the title and every setting to owned text.
func (m *Meta) IntoOwned() {
	m.title = m.title.IntoOwned()
	m.props.IntoOwned()
}

// Document is a parsed Prosidy document.
type Document struct {
	meta    Meta
	content []Block
}

// NewDocument creates a document.
func NewDocument(meta Meta, content ...Block) *Document {
	return &Document{meta: meta, content: content}
}

// Meta returns the header for reading or mutation.
func (d *Document) Meta() *Meta { return &d.meta }

// SetMeta replaces the header.
func (d *Document) SetMeta(meta Meta) { d.meta = meta }

// Title is shorthand for d.Meta().Title().
func (d *Document) Title() Text { return d.meta.title }

// Props is shorthand for d.Meta().Props().
func (d *Document) Props() *PropSet { return &d.meta.props }

// Content returns the top-level blocks.
func (d *Document) Content() []Block { return d.content }

// SetContent replaces the top-level blocks.
func (d *Document) SetContent(content []Block) { d.content = content }

// Append adds blocks to the end.
func (d *Document) Append(blocks ...Block) { d.content = append(d.content, blocks...) }
