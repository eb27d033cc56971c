package codec

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/prosidy/pkg/ast"
)

// Discriminants of the tagged-union encoding.
const (
	typeContent   = "content"
	typeLiteral   = "literal"
	typeTag       = "tag"
	typeText      = "text"
	typeSoftBreak = "soft_break"
)

// ToValue maps a document to a tree of map[string]any, []any and string
// values. Every node is tagged as {"type": ..., "value": ...}.
func ToValue(doc *ast.Document) map[string]any {
	return map[string]any{
		"meta":    MetaValue(doc.Meta()),
		"content": blocksValue(doc.Content()),
	}
}

// MetaValue maps a document header to {"title", "properties", "settings"}.
func MetaValue(meta *ast.Meta) map[string]any {
	m := propsValue(meta.Props())
	m["title"] = meta.Title().String()
	return m
}

func blocksValue(blocks []ast.Block) []any {
	out := make([]any, 0, len(blocks))
	for i := range blocks {
		out = append(out, blockValue(&blocks[i]))
	}
	return out
}

func blockValue(b *ast.Block) map[string]any {
	switch b.Kind() {
	case ast.BlockContent:
		content, _ := b.Content()
		return tagged(typeContent, inlinesValue(content))
	case ast.BlockLiteral:
		lit, _ := b.Literal()
		return tagged(typeLiteral, lit.String())
	default:
		tag, _ := b.Tag()
		v := tagValue(tag.Name(), tag.Props())
		v["content"] = blocksValue(tag.Content())
		return tagged(typeTag, v)
	}
}

func inlinesValue(inlines []ast.Inline) []any {
	out := make([]any, 0, len(inlines))
	for i := range inlines {
		out = append(out, inlineValue(&inlines[i]))
	}
	return out
}

func inlineValue(in *ast.Inline) map[string]any {
	switch in.Kind() {
	case ast.InlineSoftBreak:
		return map[string]any{"type": typeSoftBreak}
	case ast.InlineText:
		t, _ := in.Text()
		return tagged(typeText, t.String())
	case ast.InlineLiteral:
		lit, _ := in.Literal()
		return tagged(typeLiteral, lit.String())
	default:
		tag, _ := in.Tag()
		v := tagValue(tag.Name(), tag.Props())
		v["content"] = inlinesValue(tag.Content())
		return tagged(typeTag, v)
	}
}

func tagValue(name ast.Key, props *ast.PropSet) map[string]any {
	v := propsValue(props)
	v["name"] = name.String()
	return v
}

// propsValue encodes flags as a sorted "properties" list and values as a
// "settings" map.
func propsValue(props *ast.PropSet) map[string]any {
	flags := make([]any, 0)
	settings := make(map[string]any)
	for _, p := range props.Sorted() {
		if p.HasValue {
			settings[p.Key.String()] = p.Value.String()
		} else {
			flags = append(flags, p.Key.String())
		}
	}
	return map[string]any{"properties": flags, "settings": settings}
}

func tagged(typ string, value any) map[string]any {
	return map[string]any{"type": typ, "value": value}
}

// FromValue rebuilds a document from the tree produced by ToValue, or from
// the generic result of decoding its JSON, CBOR or YAML form. Keys are
// interned in the default table and all text is owned.
func FromValue(v any) (*ast.Document, error) {
	d := decoder{interner: ast.DefaultInterner()}
	return d.document(v)
}

type decoder struct {
	interner *ast.Interner
}

func (d decoder) document(v any) (*ast.Document, error) {
	m, err := asMap(v, rootPath("document"))
	if err != nil {
		return nil, err
	}

	metaMap, err := asMap(m["meta"], rootPath("meta"))
	if err != nil {
		return nil, err
	}
	title, err := optionalString(metaMap["title"], rootPath("meta").field("title"))
	if err != nil {
		return nil, err
	}
	props, err := d.props(metaMap, rootPath("meta"))
	if err != nil {
		return nil, err
	}

	content, err := d.blocks(m["content"], rootPath("content"))
	if err != nil {
		return nil, err
	}

	return ast.NewDocument(ast.NewMeta(ast.Own(title), props), content...), nil
}

func (d decoder) blocks(v any, path *fieldPath) ([]ast.Block, error) {
	items, err := asList(v, path)
	if err != nil {
		return nil, err
	}

	out := make([]ast.Block, 0, len(items))
	for i, item := range items {
		b, err := d.block(item, path.index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (d decoder) block(v any, path *fieldPath) (ast.Block, error) {
	typ, value, err := untag(v, path)
	if err != nil {
		return ast.Block{}, err
	}

	switch typ {
	case typeContent:
		content, err := d.inlines(value, path.field("value"))
		if err != nil {
			return ast.Block{}, err
		}
		return ast.ContentBlock(content...), nil
	case typeLiteral:
		s, err := asString(value, path.field("value"))
		if err != nil {
			return ast.Block{}, err
		}
		return ast.LiteralBlock(ast.NewLiteral(ast.Own(s))), nil
	case typeTag:
		m, err := asMap(value, path.field("value"))
		if err != nil {
			return ast.Block{}, err
		}
		name, props, err := d.tagHead(m, path.field("value"))
		if err != nil {
			return ast.Block{}, err
		}
		content, err := d.blocks(m["content"], path.field("value").field("content"))
		if err != nil {
			return ast.Block{}, err
		}
		return ast.TagBlock(ast.NewBlockTag(name, props, content...)), nil
	default:
		return ast.Block{}, fmt.Errorf("%s: unknown block type %q", path, typ)
	}
}

func (d decoder) inlines(v any, path *fieldPath) ([]ast.Inline, error) {
	items, err := asList(v, path)
	if err != nil {
		return nil, err
	}

	out := make([]ast.Inline, 0, len(items))
	for i, item := range items {
		in, err := d.inline(item, path.index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func (d decoder) inline(v any, path *fieldPath) (ast.Inline, error) {
	typ, value, err := untag(v, path)
	if err != nil {
		return ast.Inline{}, err
	}

	switch typ {
	case typeSoftBreak:
		return ast.SoftBreak(), nil
	case typeText, typeLiteral:
		s, err := asString(value, path.field("value"))
		if err != nil {
			return ast.Inline{}, err
		}
		if typ == typeText {
			return ast.TextInline(ast.Own(s)), nil
		}
		return ast.LiteralInline(ast.NewLiteral(ast.Own(s))), nil
	case typeTag:
		m, err := asMap(value, path.field("value"))
		if err != nil {
			return ast.Inline{}, err
		}
		name, props, err := d.tagHead(m, path.field("value"))
		if err != nil {
			return ast.Inline{}, err
		}
		content, err := d.inlines(m["content"], path.field("value").field("content"))
		if err != nil {
			return ast.Inline{}, err
		}
		return ast.TagInline(ast.NewInlineTag(name, props, content...)), nil
	default:
		return ast.Inline{}, fmt.Errorf("%s: unknown inline type %q", path, typ)
	}
}

func (d decoder) tagHead(m map[string]any, path *fieldPath) (ast.Key, ast.PropSet, error) {
	name, err := asString(m["name"], path.field("name"))
	if err != nil {
		return ast.Key{}, ast.PropSet{}, err
	}
	key, err := d.key(name, path.field("name"))
	if err != nil {
		return ast.Key{}, ast.PropSet{}, err
	}
	props, err := d.props(m, path)
	if err != nil {
		return ast.Key{}, ast.PropSet{}, err
	}
	return key, props, nil
}

func (d decoder) props(m map[string]any, path *fieldPath) (ast.PropSet, error) {
	var props ast.PropSet

	if raw, ok := m["properties"]; ok && raw != nil {
		flags, err := asList(raw, path.field("properties"))
		if err != nil {
			return props, err
		}
		for i, f := range flags {
			flagPath := path.field("properties").index(i)
			name, err := asString(f, flagPath)
			if err != nil {
				return props, err
			}
			key, err := d.key(name, flagPath)
			if err != nil {
				return props, err
			}
			props.Set(key)
		}
	}

	if raw, ok := m["settings"]; ok && raw != nil {
		settings, err := asMap(raw, path.field("settings"))
		if err != nil {
			return props, err
		}
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			settingPath := path.field("settings").field(k)
			s, err := asString(settings[k], settingPath)
			if err != nil {
				return props, err
			}
			key, err := d.key(k, settingPath)
			if err != nil {
				return props, err
			}
			props.Put(key, ast.Own(s))
		}
	}

	return props, nil
}

func (d decoder) key(name string, path *fieldPath) (ast.Key, error) {
	key, err := d.interner.NewKey(name)
	if err != nil {
		return ast.Key{}, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}

func untag(v any, path *fieldPath) (string, any, error) {
	m, err := asMap(v, path)
	if err != nil {
		return "", nil, err
	}
	typ, err := asString(m["type"], path.field("type"))
	if err != nil {
		return "", nil, err
	}
	return typ, m["value"], nil
}

func asMap(v any, path *fieldPath) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%s: map key %v is not a string", path, k)
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected object, got %T", path, v)
	}
}

func asList(v any, path *fieldPath) ([]any, error) {
	switch l := v.(type) {
	case []any:
		return l, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: expected list, got %T", path, v)
	}
}

func asString(v any, path *fieldPath) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", path, v)
	}
	return s, nil
}

func optionalString(v any, path *fieldPath) (string, error) {
	if v == nil {
		return "", nil
	}
	return asString(v, path)
}

// fieldPath locates a value in the decoded tree for error messages. It is
// only rendered when an error is reported.
type fieldPath struct {
	parent *fieldPath
	name   string
}

func rootPath(name string) *fieldPath {
	return &fieldPath{name: name}
}

func (p *fieldPath) field(name string) *fieldPath {
	return &fieldPath{parent: p, name: "." + name}
}

func (p *fieldPath) index(i int) *fieldPath {
	return &fieldPath{parent: p, name: "[" + strconv.Itoa(i) + "]"}
}

func (p *fieldPath) String() string {
	var parts []string
	for cur := p; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "")
}
