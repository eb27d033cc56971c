package ast

// Tag is a named node with properties and ordered children.
// BlockTag and InlineTag are its two instantiations.
type Tag[T any] struct {
	name    Key
	props   PropSet
	content []T
}

// BlockTag is a tag whose children are blocks.
type BlockTag = Tag[Block]

// InlineTag is a tag whose children are inline items.
type InlineTag = Tag[Inline]

// NewBlockTag creates a block tag.
func NewBlockTag(name Key, props PropSet, content ...Block) *BlockTag {
	return &BlockTag{name: name, props: props, content: content}
}

// NewInlineTag creates an inline tag.
func NewInlineTag(name Key, props PropSet, content ...Inline) *InlineTag {
	return &InlineTag{name: name, props: props, content: content}
}

// Name returns the tag name.
func (t *Tag[T]) Name() Key { return t.name }

// SetName replaces the tag name.
func (t *Tag[T]) SetName(name Key) { t.name = name }

// Props returns the tag's properties for reading or mutation.
func (t *Tag[T]) Props() *PropSet { return &t.props }

// SetProps replaces the tag's properties.
func (t *Tag[T]) SetProps(props PropSet) { t.props = props }

// Content returns the children.
func (t *Tag[T]) Content() []T { return t.content }

// SetContent replaces the children.
func (t *Tag[T]) SetContent(content []T) { t.content = content }

// Append adds children to the end.
func (t *Tag[T]) Append(children ...T) { t.content = append(t.content, children...) }
