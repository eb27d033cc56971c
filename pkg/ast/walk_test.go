package ast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prosidy/pkg/ast"
)

func buildTestDocument() *ast.Document {
	// Document
	//   Content: "Hello" SoftBreak #em{"world"}
	//   Tag section
	//     Literal "raw"
	em := ast.NewInlineTag(ast.Intern("em"), ast.PropSet{}, ast.TextInline(ast.Borrow("world")))
	section := ast.NewBlockTag(ast.Intern("section"), ast.PropSet{},
		ast.LiteralBlock(ast.NewLiteral(ast.Borrow("raw"))),
	)

	return ast.NewDocument(ast.NewMeta(ast.Borrow("Title"), ast.PropSet{}),
		ast.ContentBlock(
			ast.TextInline(ast.Borrow("Hello")),
			ast.SoftBreak(),
			ast.TagInline(em),
		),
		ast.TagBlock(section),
	)
}

func describe(n ast.Node) string {
	switch n.Kind() {
	case ast.NodeDocument:
		return "document"
	case ast.NodeBlock:
		b, _ := n.Block()
		return "block:" + b.Kind().String()
	default:
		i, _ := n.Inline()
		return "inline:" + i.Kind().String()
	}
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	doc := buildTestDocument()

	var visited []string
	err := ast.Walk(ast.DocumentNode(doc), func(n ast.Node) error {
		visited = append(visited, describe(n))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"document",
		"block:content",
		"inline:text",
		"inline:soft_break",
		"inline:tag",
		"inline:text",
		"block:tag",
		"block:literal",
	}, visited)
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	err := ast.Walk(ast.DocumentNode(buildTestDocument()), func(ast.Node) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 3, count)
}

func TestNode_PushChildrenReversed(t *testing.T) {
	t.Parallel()

	doc := buildTestDocument()
	stack := ast.DocumentNode(doc).PushChildren(nil)
	require.Len(t, stack, 2)

	top, ok := stack[len(stack)-1].Block()
	require.True(t, ok)
	assert.Equal(t, ast.BlockContent, top.Kind(), "first child must be on top")
}

func TestDocument_Equal(t *testing.T) {
	t.Parallel()

	a := buildTestDocument()
	b := buildTestDocument()
	assert.True(t, a.Equal(b))

	b.Props().Set(ast.Intern("draft"))
	assert.False(t, a.Equal(b))

	c := buildTestDocument()
	c.Append(ast.ContentBlock())
	assert.False(t, a.Equal(c))
}

func TestDocument_IntoOwned(t *testing.T) {
	t.Parallel()

	doc := buildTestDocument()
	doc.IntoOwned()

	assert.True(t, doc.Title().IsOwned())
	for n := range ast.All(ast.DocumentNode(doc)) {
		if i, ok := n.Inline(); ok {
			if text, ok := i.Text(); ok {
				assert.True(t, text.IsOwned(), "text %q", text)
			}
		}
		if b, ok := n.Block(); ok {
			if lit, ok := b.Literal(); ok {
				assert.True(t, lit.Text().IsOwned())
			}
		}
	}
	assert.True(t, doc.Equal(buildTestDocument()))
}

func TestWalk_DeepTree(t *testing.T) {
	t.Parallel()

	const depth = 50_000
	inner := ast.ContentBlock(ast.TextInline(ast.Borrow("leaf")))
	for range depth {
		inner = ast.TagBlock(ast.NewBlockTag(ast.Intern("nest"), ast.PropSet{}, inner))
	}
	doc := ast.NewDocument(ast.Meta{}, inner)

	count := 0
	for range ast.All(ast.DocumentNode(doc)) {
		count++
	}
	assert.Equal(t, depth+3, count)
	assert.True(t, doc.Equal(doc))
}
