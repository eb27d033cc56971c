package ast

import "iter"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n Node) error

// Walk performs a pre-order traversal starting at root. It keeps its own
// stack, so tree depth does not grow the call stack. If walkFunc returns a
// non-nil error, the walk stops immediately and returns that error.
func Walk(root Node, walkFunc WalkFunc) error {
	for n := range All(root) {
		if err := walkFunc(n); err != nil {
			return err
		}
	}
	return nil
}

// All yields root and all of its descendants in pre-order.
func All(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stack := []Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			stack = n.PushChildren(stack)
		}
	}
}

// IntoOwned converts every Text in the document to owned storage, so the
// source the document was parsed from can be released.
func (d *Document) IntoOwned() {
	for n := range All(DocumentNode(d)) {
		switch n.kind {
		case NodeDocument:
			n.doc.meta.IntoOwned()
		case NodeBlock:
			b := n.block
			switch b.kind {
			case BlockLiteral:
				b.literal.text = b.literal.text.IntoOwned()
			case BlockTagged:
				b.tag.props.IntoOwned()
			}
		case NodeInline:
			i := n.inline
			switch i.kind {
			case InlineText:
				i.text = i.text.IntoOwned()
			case InlineLiteral:
				i.literal.text = i.literal.text.IntoOwned()
			case InlineTagged:
				i.tag.props.IntoOwned()
			}
		}
	}
}

// Equal reports whether two documents have the same content. Text is
// compared by content and keys by identity.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return nodesEqual(DocumentNode(d), DocumentNode(other))
}

// Equal reports whether two blocks have the same content.
func (b *Block) Equal(other *Block) bool {
	return nodesEqual(BlockNode(b), BlockNode(other))
}

// Equal reports whether two inline items have the same content.
func (i *Inline) Equal(other *Inline) bool {
	return nodesEqual(InlineNode(i), InlineNode(other))
}

// nodesEqual compares two trees in lockstep with an explicit stack.
func nodesEqual(a, b Node) bool {
	left := []Node{a}
	right := []Node{b}
	for len(left) > 0 {
		x, y := left[len(left)-1], right[len(right)-1]
		left, right = left[:len(left)-1], right[:len(right)-1]

		if !shallowEqual(x, y) || x.ChildCount() != y.ChildCount() {
			return false
		}
		left = x.PushChildren(left)
		right = y.PushChildren(right)
	}
	return true
}

// shallowEqual compares everything except children.
func shallowEqual(x, y Node) bool {
	if x.kind != y.kind {
		return false
	}
	switch x.kind {
	case NodeDocument:
		return x.doc.meta.title.Equal(y.doc.meta.title) && x.doc.meta.props.Equal(&y.doc.meta.props)
	case NodeBlock:
		if x.block.kind != y.block.kind {
			return false
		}
		switch x.block.kind {
		case BlockLiteral:
			return x.block.literal.Equal(y.block.literal)
		case BlockTagged:
			return x.block.tag.name == y.block.tag.name && x.block.tag.props.Equal(&y.block.tag.props)
		}
	case NodeInline:
		if x.inline.kind != y.inline.kind {
			return false
		}
		switch x.inline.kind {
		case InlineText:
			return x.inline.text.Equal(y.inline.text)
		case InlineLiteral:
			return x.inline.literal.Equal(y.inline.literal)
		case InlineTagged:
			return x.inline.tag.name == y.inline.tag.name && x.inline.tag.props.Equal(&y.inline.tag.props)
		}
	}
	return true
}
