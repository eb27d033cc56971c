package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prosidy/pkg/grammar"
)

func TestLineIndex_Position(t *testing.T) {
	t.Parallel()

	idx := grammar.NewLineIndex("ab\r\ncd\nef")

	tests := []struct {
		name   string
		offset int
		want   grammar.Position
	}{
		{name: "start", offset: 0, want: grammar.Position{Line: 1, Column: 1}},
		{name: "carriage return", offset: 2, want: grammar.Position{Line: 1, Column: 3}},
		{name: "second line", offset: 4, want: grammar.Position{Line: 2, Column: 1}},
		{name: "newline byte", offset: 6, want: grammar.Position{Line: 2, Column: 3}},
		{name: "last line", offset: 8, want: grammar.Position{Line: 3, Column: 2}},
		{name: "end of input", offset: 9, want: grammar.Position{Line: 3, Column: 3}},
		{name: "past end clamps", offset: 100, want: grammar.Position{Line: 3, Column: 3}},
		{name: "negative clamps", offset: -5, want: grammar.Position{Line: 1, Column: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, idx.Position(tt.offset))
		})
	}
}

func TestLineIndex_Line(t *testing.T) {
	t.Parallel()

	idx := grammar.NewLineIndex("ab\r\ncd\n")

	assert.Equal(t, 3, idx.LineCount())
	assert.Equal(t, "ab", idx.Line(1))
	assert.Equal(t, "cd", idx.Line(2))
	assert.Empty(t, idx.Line(3))
	assert.Empty(t, idx.Line(0))
	assert.Empty(t, idx.Line(4))
}

func TestSpan(t *testing.T) {
	t.Parallel()

	s := grammar.Span{Start: 3, End: 7}
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "3..7", s.String())
}
