package parser

import "github.com/yaklabco/prosidy/pkg/grammar"

// pairs is a cursor over sibling rule pairs.
type pairs struct {
	items []grammar.Pair
	pos   int
}

func newPairs(items []grammar.Pair) *pairs {
	return &pairs{items: items}
}

func (ps *pairs) peek() (grammar.Pair, bool) {
	if ps.pos >= len(ps.items) {
		return grammar.Pair{}, false
	}
	return ps.items[ps.pos], true
}

func (ps *pairs) empty() bool {
	return ps.pos >= len(ps.items)
}

func (ps *pairs) remaining() []grammar.Rule {
	rules := make([]grammar.Rule, 0, len(ps.items)-ps.pos)
	for _, p := range ps.items[ps.pos:] {
		rules = append(rules, p.Rule)
	}
	return rules
}

// withBlock consumes the next pair if it is rule and runs fn over its inner
// pairs, which fn must consume completely. If fn soft-fails the pair is
// left in place.
func withBlock[T any](ps *pairs, rule grammar.Rule, fn func(*pairs) (T, error)) (T, error) {
	var zero T

	pair, ok := ps.peek()
	if !ok || pair.Rule != rule {
		return zero, noMatch(rule)
	}

	inner := newPairs(pair.Inner)
	v, err := fn(inner)
	if err != nil {
		return zero, annotate(err, rule, pair.Span)
	}
	if !inner.empty() {
		return zero, annotate(&Error{Kind: KindTrailing, Remaining: inner.remaining()}, rule, pair.Span)
	}

	ps.pos++
	return v, nil
}

// withAtom consumes the next pair if it is rule and converts it with fn.
func withAtom[T any](ps *pairs, rule grammar.Rule, fn func(grammar.Pair) (T, error)) (T, error) {
	var zero T

	pair, ok := ps.peek()
	if !ok || pair.Rule != rule {
		return zero, noMatch(rule)
	}

	v, err := fn(pair)
	if err != nil {
		return zero, annotate(err, rule, pair.Span)
	}

	ps.pos++
	return v, nil
}

// optional turns a soft failure into (zero, false, nil). Hard failures
// are returned unchanged.
func optional[T any](v T, err error) (T, bool, error) {
	if err == nil {
		return v, true, nil
	}
	var zero T
	if isNoMatch(err) {
		return zero, false, nil
	}
	return zero, false, err
}

// orDefault turns a soft failure into the zero value.
func orDefault[T any](v T, err error) (T, error) {
	v, _, err = optional(v, err)
	return v, err
}

// repeat calls fn until it soft-fails and collects the results.
func repeat[T any](ps *pairs, fn func(*pairs) (T, error)) ([]T, error) {
	var out []T
	for {
		v, ok, err := optional(fn(ps))
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
