// Package parser converts Prosidy source into an ast.Document.
//
// Parsing happens in two steps: pkg/grammar matches the source and produces
// a tree of rule pairs, then a typed recursive descent turns each pair into
// an AST node. Every step of the descent either succeeds, soft-fails with
// ErrNoMatch (used to drive alternation and repetition), or fails hard. Hard
// failures collect a breadcrumb for every rule they unwind through.
package parser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/grammar"
)

// Parser parses Prosidy documents. A Parser is safe for concurrent use.
type Parser struct {
	interner *ast.Interner
	logger   *log.Logger
	maxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithInterner sets the table keys are interned into. The default is
// ast.DefaultInterner.
func WithInterner(in *ast.Interner) Option {
	return func(p *Parser) {
		if in != nil {
			p.interner = in
		}
	}
}

// WithLogger enables debug logging of parse activity.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithMaxDepth bounds tag nesting. See grammar.Options.MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{interner: ast.DefaultInterner()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDocument parses src with default options.
func ParseDocument(src string) (*ast.Document, error) {
	return New().ParseDocument(src)
}

// ParseMeta parses the header of src with default options.
func ParseMeta(src string) (*ast.Meta, error) {
	return New().ParseMeta(src)
}

// ParseDocument parses a complete document. Text in the result borrows
// from src; call Document.IntoOwned before src must be released.
func (p *Parser) ParseDocument(src string) (*ast.Document, error) {
	start := time.Now()
	src = trimBOM(src)

	top, err := grammar.Parse(grammar.Document, src, grammar.Options{MaxDepth: p.maxDepth})
	if err != nil {
		return nil, p.fail(syntaxError(err))
	}

	b := &builder{interner: p.interner}
	ps := newPairs(top)
	doc, err := b.document(ps)
	if isNoMatch(err) || (err == nil && !ps.empty()) {
		err = &Error{Kind: KindTrailing, Remaining: ps.remaining()}
	}
	if err != nil {
		return nil, p.fail(err)
	}

	p.debug("parsed document",
		logging.FieldBytes, len(src),
		logging.FieldBlocks, len(doc.Content()),
		logging.FieldDuration, time.Since(start),
	)
	return doc, nil
}

// ParseMeta parses only the document header. The body is not examined, so
// a document with a malformed body still yields its metadata.
func (p *Parser) ParseMeta(src string) (*ast.Meta, error) {
	src = trimBOM(src)

	top, err := grammar.Parse(grammar.Header, src, grammar.Options{MaxDepth: p.maxDepth})
	if err != nil {
		return nil, p.fail(syntaxError(err))
	}

	b := &builder{interner: p.interner}
	ps := newPairs(top)
	meta, err := b.meta(ps)
	if isNoMatch(err) || (err == nil && !ps.empty()) {
		err = &Error{Kind: KindTrailing, Remaining: ps.remaining()}
	}
	if err != nil {
		return nil, p.fail(err)
	}

	p.debug("parsed header", logging.FieldProps, meta.Props().Len())
	return &meta, nil
}

// ReadDocument reads all of r and parses it. Input may be UTF-8 or, when
// it starts with a byte order mark, UTF-16. Without WithLogger, debug
// output goes to the logger attached to ctx.
func (p *Parser) ReadDocument(ctx context.Context, r io.Reader) (*ast.Document, error) {
	p = p.withContextLogger(ctx)
	src, err := p.read(ctx, r)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(src)
}

// ReadMeta reads all of r and parses its header.
func (p *Parser) ReadMeta(ctx context.Context, r io.Reader) (*ast.Meta, error) {
	p = p.withContextLogger(ctx)
	src, err := p.read(ctx, r)
	if err != nil {
		return nil, err
	}
	return p.ParseMeta(src)
}

func (p *Parser) withContextLogger(ctx context.Context) *Parser {
	if p.logger != nil {
		return p
	}
	cp := *p
	cp.logger = logging.FromContext(ctx)
	return &cp
}

func (p *Parser) read(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("parse cancelled: %w", err)
	}

	data, err := io.ReadAll(transform.NewReader(r, newDecoder()))
	if err != nil {
		return "", p.fail(&Error{Kind: KindIO, Err: err})
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("parse cancelled: %w", err)
	}
	return string(data), nil
}

// DecodeSource converts raw file content to parser input: UTF-8, or
// UTF-16 when a byte order mark says so. A leading UTF-8 mark is dropped.
func DecodeSource(data []byte) (string, error) {
	out, _, err := transform.Bytes(newDecoder(), data)
	if err != nil {
		return "", &Error{Kind: KindIO, Err: err}
	}
	return trimBOM(string(out)), nil
}

func newDecoder() transform.Transformer {
	return unicode.BOMOverride(unicode.UTF8.NewDecoder())
}

func (p *Parser) fail(err error) error {
	p.debug("parse failed", logging.FieldError, err)
	return err
}

func (p *Parser) debug(msg string, keyvals ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, keyvals...)
	}
}

func syntaxError(err error) *Error {
	return &Error{Kind: KindSyntax, Err: err}
}

func trimBOM(src string) string {
	return strings.TrimPrefix(src, "\ufeff")
}
