package parser

import (
	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/grammar"
)

// escapes maps every recognized escape sequence to its decoded text.
//
//nolint:gochecknoglobals // Read-only lookup table.
var escapes = map[string]string{
	`\n`: "\n",
	`\t`: "\t",
	`\\`: `\`,
	`\#`: "#",
	`\{`: "{",
	`\}`: "}",
}

// builder converts rule pairs into AST values.
type builder struct {
	interner *ast.Interner
}

func (b *builder) document(ps *pairs) (*ast.Document, error) {
	return withBlock(ps, grammar.Document, func(ps *pairs) (*ast.Document, error) {
		meta, err := b.meta(ps)
		if err != nil {
			return nil, err
		}

		blocks, err := repeat(ps, b.block)
		if err != nil {
			return nil, err
		}

		if _, err := withAtom(ps, grammar.EOI, func(grammar.Pair) (struct{}, error) {
			return struct{}{}, nil
		}); err != nil {
			return nil, err
		}

		return ast.NewDocument(meta, blocks...), nil
	})
}

func (b *builder) meta(ps *pairs) (ast.Meta, error) {
	return withBlock(ps, grammar.Header, func(ps *pairs) (ast.Meta, error) {
		title, err := orDefault(withBlock(ps, grammar.Title, b.textOrEmpty))
		if err != nil {
			return ast.Meta{}, err
		}

		props, err := orDefault(b.propSet(ps))
		if err != nil {
			return ast.Meta{}, err
		}

		return ast.NewMeta(title, props), nil
	})
}

// propSet reads tag properties, falling back to header properties.
func (b *builder) propSet(ps *pairs) (ast.PropSet, error) {
	props, ok, err := optional(withBlock(ps, grammar.Props, b.props))
	if err != nil || ok {
		return props, err
	}
	return withBlock(ps, grammar.DocumentProps, b.props)
}

func (b *builder) props(ps *pairs) (ast.PropSet, error) {
	entries, err := repeat(ps, b.prop)
	if err != nil {
		return ast.PropSet{}, err
	}

	var props ast.PropSet
	for _, p := range entries {
		if p.HasValue {
			props.Put(p.Key, p.Value)
		} else {
			props.Set(p.Key)
		}
	}
	return props, nil
}

func (b *builder) prop(ps *pairs) (ast.Prop, error) {
	return withBlock(ps, grammar.Prop, func(ps *pairs) (ast.Prop, error) {
		key, err := b.key(ps)
		if err != nil {
			return ast.Prop{}, err
		}

		value, ok, err := optional(withBlock(ps, grammar.QuotedText, b.textOrEmpty))
		if err != nil {
			return ast.Prop{}, err
		}
		if !ok {
			value, ok, err = optional(withBlock(ps, grammar.PropValue, b.textOrEmpty))
			if err != nil {
				return ast.Prop{}, err
			}
		}

		return ast.Prop{Key: key, Value: value, HasValue: ok}, nil
	})
}

func (b *builder) key(ps *pairs) (ast.Key, error) {
	return withAtom(ps, grammar.Key, func(p grammar.Pair) (ast.Key, error) {
		return b.interner.Intern(p.Str()), nil
	})
}

// block tries a tag first and falls back to a paragraph.
func (b *builder) block(ps *pairs) (ast.Block, error) {
	tag, ok, err := optional(b.blockTag(ps))
	if err != nil {
		return ast.Block{}, err
	}
	if ok {
		return ast.TagBlock(tag), nil
	}

	content, err := withBlock(ps, grammar.Paragraph, b.inlines)
	if err != nil {
		return ast.Block{}, err
	}
	return ast.ContentBlock(content...), nil
}

// blockTag tries a structural tag first and falls back to a literal tag.
func (b *builder) blockTag(ps *pairs) (*ast.BlockTag, error) {
	tag, ok, err := optional(withBlock(ps, grammar.BlockTag, b.structuralTag))
	if err != nil || ok {
		return tag, err
	}
	return withBlock(ps, grammar.LiteralTag, b.literalTag)
}

func (b *builder) structuralTag(ps *pairs) (*ast.BlockTag, error) {
	name, props, err := b.tagHead(ps)
	if err != nil {
		return nil, err
	}

	content, err := repeat(ps, b.block)
	if err != nil {
		return nil, err
	}
	return ast.NewBlockTag(name, props, content...), nil
}

func (b *builder) literalTag(ps *pairs) (*ast.BlockTag, error) {
	name, props, err := b.tagHead(ps)
	if err != nil {
		return nil, err
	}

	text, err := orDefault(withAtom(ps, grammar.Literal, func(p grammar.Pair) (ast.Text, error) {
		return ast.Borrow(p.Str()), nil
	}))
	if err != nil {
		return nil, err
	}
	return ast.NewBlockTag(name, props, ast.LiteralBlock(ast.NewLiteral(text))), nil
}

// tagHead reads the name and optional properties shared by every tag form.
func (b *builder) tagHead(ps *pairs) (ast.Key, ast.PropSet, error) {
	name, err := b.key(ps)
	if err != nil {
		return ast.Key{}, ast.PropSet{}, err
	}
	props, err := orDefault(withBlock(ps, grammar.Props, b.props))
	if err != nil {
		return ast.Key{}, ast.PropSet{}, err
	}
	return name, props, nil
}

func (b *builder) inlines(ps *pairs) ([]ast.Inline, error) {
	return repeat(ps, b.inline)
}

// inline tries a soft break, then a tag, then text.
func (b *builder) inline(ps *pairs) (ast.Inline, error) {
	_, ok, err := optional(withAtom(ps, grammar.SoftBreak, func(grammar.Pair) (struct{}, error) {
		return struct{}{}, nil
	}))
	if err != nil {
		return ast.Inline{}, err
	}
	if ok {
		return ast.SoftBreak(), nil
	}

	tag, ok, err := optional(withBlock(ps, grammar.InlineTag, b.inlineTag))
	if err != nil {
		return ast.Inline{}, err
	}
	if ok {
		return ast.TagInline(tag), nil
	}

	text, err := b.text(ps)
	if err != nil {
		return ast.Inline{}, err
	}
	return ast.TextInline(text), nil
}

func (b *builder) inlineTag(ps *pairs) (*ast.InlineTag, error) {
	name, props, err := b.tagHead(ps)
	if err != nil {
		return nil, err
	}

	content, err := orDefault(withBlock(ps, grammar.Paragraph, b.inlines))
	if err != nil {
		return nil, err
	}
	return ast.NewInlineTag(name, props, content...), nil
}

// text joins a run of plain text and escapes. It soft-fails when the run
// is empty.
func (b *builder) text(ps *pairs) (ast.Text, error) {
	fragments, err := repeat(ps, b.fragment)
	if err != nil {
		return ast.Text{}, err
	}
	if len(fragments) == 0 {
		return ast.Text{}, noMatch(grammar.PlainText)
	}
	return ast.Concat(fragments...), nil
}

func (b *builder) textOrEmpty(ps *pairs) (ast.Text, error) {
	return orDefault(b.text(ps))
}

func (b *builder) fragment(ps *pairs) (ast.Text, error) {
	text, ok, err := optional(withAtom(ps, grammar.PlainText, func(p grammar.Pair) (ast.Text, error) {
		return ast.Borrow(p.Str()), nil
	}))
	if err != nil || ok {
		return text, err
	}
	return withAtom(ps, grammar.Escape, decodeEscape)
}

func decodeEscape(p grammar.Pair) (ast.Text, error) {
	decoded, ok := escapes[p.Str()]
	if !ok {
		return ast.Text{}, &Error{Kind: KindInvalidEscape, Escape: p.Str()}
	}
	return ast.Borrow(decoded), nil
}
