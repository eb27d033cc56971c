package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/prosidy/pkg/grammar"
)

// Kind classifies a parse failure.
type Kind uint8

// Error kinds. Only KindNoMatch is recoverable; it never escapes a
// successful top-level parse.
const (
	KindNoMatch Kind = iota
	KindSyntax
	KindInvalidEscape
	KindTrailing
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNoMatch:
		return "no match"
	case KindSyntax:
		return "syntax error"
	case KindInvalidEscape:
		return "invalid escape"
	case KindTrailing:
		return "trailing input"
	case KindIO:
		return "i/o error"
	default:
		return "unknown"
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrNoMatch       = errors.New("no match")
	ErrSyntax        = errors.New("syntax error")
	ErrInvalidEscape = errors.New("invalid escape")
	ErrTrailing      = errors.New("trailing input")
	ErrIO            = errors.New("i/o error")
)

// Location is one breadcrumb of an error trace.
type Location struct {
	Rule grammar.Rule
	Span grammar.Span
}

func (l Location) String() string {
	return fmt.Sprintf("in rule %s at %s", l.Rule, l.Span)
}

// Error is returned by every parse entry point.
type Error struct {
	Kind Kind

	// Rule is the rule that was expected, for KindNoMatch.
	Rule grammar.Rule

	// Escape is the offending sequence, for KindInvalidEscape.
	Escape string

	// Remaining lists unconsumed rules, for KindTrailing.
	Remaining []grammar.Rule

	// Err is the underlying *grammar.SyntaxError or read error.
	Err error

	// trace is innermost first, in the order breadcrumbs were added.
	trace []Location
}

// Trace returns the rule contexts the error unwound through, outermost
// first.
func (e *Error) Trace() []Location {
	out := slices.Clone(e.trace)
	slices.Reverse(out)
	return out
}

// Message describes the failure without its trace.
func (e *Error) Message() string {
	switch e.Kind {
	case KindNoMatch:
		return "expected " + e.Rule.String()
	case KindSyntax:
		return e.Err.Error()
	case KindInvalidEscape:
		return fmt.Sprintf("invalid escape sequence %q", e.Escape)
	case KindTrailing:
		names := make([]string, len(e.Remaining))
		for i, r := range e.Remaining {
			names[i] = r.String()
		}
		return "unexpected trailing rules: " + strings.Join(names, ", ")
	case KindIO:
		return "read input: " + e.Err.Error()
	default:
		return e.Kind.String()
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message())
	for _, loc := range e.Trace() {
		b.WriteString("\n  ")
		b.WriteString(loc.String())
	}
	return b.String()
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNoMatch:
		return e.Kind == KindNoMatch
	case ErrSyntax:
		return e.Kind == KindSyntax
	case ErrInvalidEscape:
		return e.Kind == KindInvalidEscape
	case ErrTrailing:
		return e.Kind == KindTrailing
	case ErrIO:
		return e.Kind == KindIO
	default:
		return false
	}
}

func noMatch(rule grammar.Rule) *Error {
	return &Error{Kind: KindNoMatch, Rule: rule}
}

func isNoMatch(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == KindNoMatch
}

// annotate adds a breadcrumb to hard errors. Soft failures pass through
// untouched.
func annotate(err error, rule grammar.Rule, span grammar.Span) error {
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind == KindNoMatch {
		return err
	}
	perr.trace = append(perr.trace, Location{Rule: rule, Span: span})
	return perr
}
