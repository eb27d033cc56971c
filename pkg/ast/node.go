package ast

// NodeKind classifies a Node view.
type NodeKind uint8

// Node kinds.
const (
	NodeDocument NodeKind = iota
	NodeBlock
	NodeInline
)

func (k NodeKind) String() string {
	switch k {
	case NodeDocument:
		return "document"
	case NodeBlock:
		return "block"
	case NodeInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Node is a read-only view over a Document, Block or Inline. It points into
// the tree, so the viewed value must not be moved while the view is in use.
type Node struct {
	kind   NodeKind
	doc    *Document
	block  *Block
	inline *Inline
}

// DocumentNode views a document.
func DocumentNode(d *Document) Node { return Node{kind: NodeDocument, doc: d} }

// BlockNode views a block.
func BlockNode(b *Block) Node { return Node{kind: NodeBlock, block: b} }

// InlineNode views an inline item.
func InlineNode(i *Inline) Node { return Node{kind: NodeInline, inline: i} }

// Kind returns what the view points at.
func (n Node) Kind() NodeKind { return n.kind }

// Document returns the viewed document.
func (n Node) Document() (*Document, bool) { return n.doc, n.kind == NodeDocument }

// Block returns the viewed block.
func (n Node) Block() (*Block, bool) { return n.block, n.kind == NodeBlock }

// Inline returns the viewed inline item.
func (n Node) Inline() (*Inline, bool) { return n.inline, n.kind == NodeInline }

// ChildCount returns the number of direct children.
func (n Node) ChildCount() int {
	switch n.kind {
	case NodeDocument:
		return len(n.doc.content)
	case NodeBlock:
		switch n.block.kind {
		case BlockContent:
			return len(n.block.content)
		case BlockTagged:
			return len(n.block.tag.content)
		}
	case NodeInline:
		if n.inline.kind == InlineTagged {
			return len(n.inline.tag.content)
		}
	}
	return 0
}

// PushChildren appends the node's children to stack in reverse order, so
// that popping the stack visits them first to last.
func (n Node) PushChildren(stack []Node) []Node {
	switch n.kind {
	case NodeDocument:
		return pushBlocks(stack, n.doc.content)
	case NodeBlock:
		switch n.block.kind {
		case BlockContent:
			return pushInlines(stack, n.block.content)
		case BlockTagged:
			return pushBlocks(stack, n.block.tag.content)
		}
	case NodeInline:
		if n.inline.kind == InlineTagged {
			return pushInlines(stack, n.inline.tag.content)
		}
	}
	return stack
}

func pushBlocks(stack []Node, blocks []Block) []Node {
	for i := len(blocks) - 1; i >= 0; i-- {
		stack = append(stack, BlockNode(&blocks[i]))
	}
	return stack
}

func pushInlines(stack []Node, inlines []Inline) []Node {
	for i := len(inlines) - 1; i >= 0; i-- {
		stack = append(stack, InlineNode(&inlines[i]))
	}
	return stack
}
