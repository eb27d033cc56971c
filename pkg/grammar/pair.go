package grammar

import (
	"fmt"
	"strings"
)

// Pair is one matched rule: its span in the source and the pairs matched
// inside it.
type Pair struct {
	Rule  Rule
	Span  Span
	Inner []Pair

	src string
}

// Str returns the matched source text. For pairs built from a parsed
// string this is a substring of that string, not a copy.
func (p Pair) Str() string {
	return p.src[p.Span.Start:p.Span.End]
}

// Dump renders the pair tree one rule per line, for debugging and tests.
func Dump(pairs []Pair) string {
	var b strings.Builder
	dump(&b, pairs, 0)
	return b.String()
}

func dump(b *strings.Builder, pairs []Pair, depth int) {
	for _, p := range pairs {
		b.WriteString(strings.Repeat("  ", depth))
		if len(p.Inner) == 0 {
			fmt.Fprintf(b, "%s %q\n", p.Rule, p.Str())
			continue
		}
		fmt.Fprintf(b, "%s\n", p.Rule)
		dump(b, p.Inner, depth+1)
	}
}
