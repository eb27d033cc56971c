package ast_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prosidy/pkg/ast"
)

func TestText_EqualIgnoresStorage(t *testing.T) {
	t.Parallel()

	borrowed := ast.Borrow("foo")
	owned := ast.Own("foo")

	assert.False(t, borrowed.IsOwned())
	assert.True(t, owned.IsOwned())
	assert.True(t, borrowed.Equal(owned))
	assert.True(t, owned.Equal(borrowed))
	assert.False(t, borrowed.Equal(ast.Borrow("bar")))
}

func TestText_ZeroValue(t *testing.T) {
	t.Parallel()

	var zero ast.Text
	assert.True(t, zero.IsEmpty())
	assert.False(t, zero.IsOwned())
	assert.True(t, zero.Equal(ast.Borrow("")))
}

func TestText_IntoOwned(t *testing.T) {
	t.Parallel()

	owned := ast.Borrow("source").IntoOwned()
	assert.True(t, owned.IsOwned())
	assert.Equal(t, "source", owned.String())

	again := owned.IntoOwned()
	assert.Equal(t, owned, again)
}

func TestConcat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fragments []ast.Text
		want      string
		wantOwned bool
	}{
		{name: "none", fragments: nil, want: "", wantOwned: false},
		{name: "single borrowed kept", fragments: []ast.Text{ast.Borrow("one")}, want: "one", wantOwned: false},
		{name: "single owned kept", fragments: []ast.Text{ast.Own("one")}, want: "one", wantOwned: true},
		{
			name:      "many joined",
			fragments: []ast.Text{ast.Borrow("a"), ast.Own("b"), ast.Borrow("c")},
			want:      "abc",
			wantOwned: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ast.Concat(tt.fragments...)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.wantOwned, got.IsOwned())

			collected := ast.Collect(slices.Values(tt.fragments))
			assert.Equal(t, got, collected)
		})
	}
}

func TestConcat_SingleFragmentAllocatesNothing(t *testing.T) {
	frag := []ast.Text{ast.Borrow("only")}
	allocs := testing.AllocsPerRun(100, func() {
		_ = ast.Concat(frag...)
	})
	assert.Zero(t, allocs)
}
