package ast

import (
	"iter"
	"strings"
)

// Text is a string that is either borrowed from a source buffer or owned.
//
// A borrowed Text is a substring of the parsed source and shares its
// memory, keeping the whole source reachable. An owned Text holds an
// independent copy. The zero value is an empty borrowed Text.
type Text struct {
	s     string
	owned bool
}

// Borrow wraps s without copying.
func Borrow(s string) Text {
	return Text{s: s}
}

// Own copies s into an independent allocation.
func Own(s string) Text {
	return Text{s: strings.Clone(s), owned: true}
}

// String returns the text content.
func (t Text) String() string {
	return t.s
}

// Len returns the length in bytes.
func (t Text) Len() int {
	return len(t.s)
}

// IsEmpty reports whether the text has no content.
func (t Text) IsEmpty() bool {
	return t.s == ""
}

// IsOwned reports whether the text holds its own allocation.
func (t Text) IsOwned() bool {
	return t.owned
}

// IntoOwned returns an owned copy. Owned text is returned unchanged.
func (t Text) IntoOwned() Text {
	if t.owned {
		return t
	}
	return Own(t.s)
}

// Equal compares content, ignoring storage.
func (t Text) Equal(other Text) bool {
	return t.s == other.s
}

// Concat joins fragments. A single fragment is returned unchanged; anything
// else is copied into exactly one new owned allocation.
func Concat(fragments ...Text) Text {
	switch len(fragments) {
	case 0:
		return Text{}
	case 1:
		return fragments[0]
	}

	size := 0
	for _, f := range fragments {
		size += len(f.s)
	}

	var b strings.Builder
	b.Grow(size)
	for _, f := range fragments {
		b.WriteString(f.s)
	}

	return Text{s: b.String(), owned: true}
}

// Collect concatenates a sequence of fragments with the same allocation
// behavior as Concat.
func Collect(seq iter.Seq[Text]) Text {
	var (
		first Text
		rest  []Text
		n     int
	)
	for t := range seq {
		if n == 0 {
			first = t
		} else {
			if rest == nil {
				rest = append(rest, first)
			}
			rest = append(rest, t)
		}
		n++
	}

	if n <= 1 {
		return first
	}
	return Concat(rest...)
}
