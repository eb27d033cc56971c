package ast

// BlockKind identifies the variant held by a Block.
type BlockKind uint8

// Block variants.
const (
	BlockContent BlockKind = iota
	BlockLiteral
	BlockTagged
)

var blockKindNames = [...]string{
	BlockContent: "content",
	BlockLiteral: "literal",
	BlockTagged:  "tag",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a document-level node: a paragraph of inline content, a literal,
// or a block tag.
type Block struct {
	kind    BlockKind
	content []Inline
	literal Literal
	tag     *BlockTag
}

// ContentBlock creates a paragraph block.
func ContentBlock(content ...Inline) Block {
	return Block{kind: BlockContent, content: content}
}

// LiteralBlock creates a literal block.
func LiteralBlock(lit Literal) Block {
	return Block{kind: BlockLiteral, literal: lit}
}

// TagBlock creates a block holding a tag.
func TagBlock(tag *BlockTag) Block {
	return Block{kind: BlockTagged, tag: tag}
}

// Kind returns the variant.
func (b *Block) Kind() BlockKind { return b.kind }

// Content returns the paragraph content when the block is a paragraph.
func (b *Block) Content() ([]Inline, bool) {
	return b.content, b.kind == BlockContent
}

// Literal returns the literal when the block is a literal.
func (b *Block) Literal() (Literal, bool) {
	return b.literal, b.kind == BlockLiteral
}

// Tag returns the tag when the block is a tag.
func (b *Block) Tag() (*BlockTag, bool) {
	return b.tag, b.kind == BlockTagged
}
