package grammar_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prosidy/pkg/grammar"
)

func TestParse_Document(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "single paragraph",
			src:  "Hello, world!",
			want: `document
  header ""
  paragraph
    plain_text "Hello, world!"
  EOI ""
`,
		},
		{
			name: "header and escapes",
			src:  "title: Test\nlang: en\ndraft\n---\nBody \\# text.\n",
			want: `document
  header
    title
      plain_text "Test"
    document_props
      prop
        key "lang"
        prop_value
          plain_text "en"
      prop
        key "draft"
  paragraph
    plain_text "Body "
    escape "\\#"
    plain_text " text."
  EOI ""
`,
		},
		{
			name: "unterminated header is body",
			src:  "lang: en\n",
			want: `document
  header ""
  paragraph
    plain_text "lang: en"
  EOI ""
`,
		},
		{
			name: "soft break and inline tag",
			src:  "one #b[x='1']{two}\n  three",
			want: `document
  header ""
  paragraph
    plain_text "one "
    inline_tag
      key "b"
      props
        prop
          key "x"
          quoted_text
            plain_text "1"
      paragraph
        plain_text "two"
    soft_break "\n  "
    plain_text "three"
  EOI ""
`,
		},
		{
			name: "nested blocks and labelled literal",
			src:  "#-section[id='intro', hidden]:\nPara.\n#=code:end\n#:\nraw\n#:end\n#:\n",
			want: `document
  header ""
  block_tag
    key "section"
    props
      prop
        key "id"
        quoted_text
          plain_text "intro"
      prop
        key "hidden"
    paragraph
      plain_text "Para."
    literal_tag
      key "code"
      literal "#:\nraw\n"
  EOI ""
`,
		},
		{
			name: "braced block tag and blank-line separated paragraphs",
			src:  "#-note{Content!}\n\nFirst.\n\n## comment\nSecond.",
			want: `document
  header ""
  block_tag
    key "note"
    paragraph
      plain_text "Content!"
  paragraph
    plain_text "First."
  paragraph
    plain_text "Second."
  EOI ""
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pairs, err := grammar.Parse(grammar.Document, tt.src, grammar.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, grammar.Dump(pairs))
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := grammar.Parse(grammar.Document, "Hello }", grammar.Options{})
	require.Error(t, err)

	var syntaxErr *grammar.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 6, syntaxErr.Offset)
	assert.Equal(t, grammar.Position{Line: 1, Column: 7}, syntaxErr.Pos)
	assert.Contains(t, syntaxErr.Expected, "end of input")
	assert.Contains(t, err.Error(), "syntax error at 1:7")
}

func TestParse_UnclosedBlock(t *testing.T) {
	t.Parallel()

	_, err := grammar.Parse(grammar.Document, "#-a:label\ntext\n#:\n", grammar.Options{})

	var syntaxErr *grammar.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 3, syntaxErr.Pos.Line)
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	src := strings.Repeat("#a{", 300) + strings.Repeat("}", 300)

	_, err := grammar.Parse(grammar.Document, src, grammar.Options{})
	var syntaxErr *grammar.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "tags nested too deeply", syntaxErr.Message)

	pairs, err := grammar.Parse(grammar.Document, src, grammar.Options{MaxDepth: -1})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
}

func TestParse_LongWhitespaceRuns(t *testing.T) {
	t.Parallel()

	const n = 200_000
	spaces := strings.Repeat(" ", n)

	tests := []struct {
		name string
		src  string
		find func(doc grammar.Pair) grammar.Pair
		want string
	}{
		{
			name: "inside paragraph",
			src:  "a" + spaces + "b",
			find: func(doc grammar.Pair) grammar.Pair { return doc.Inner[1].Inner[0] },
			want: "a" + spaces + "b",
		},
		{
			name: "trailing in paragraph",
			src:  "a" + spaces + "\nb",
			find: func(doc grammar.Pair) grammar.Pair { return doc.Inner[1].Inner[0] },
			want: "a",
		},
		{
			name: "inside title",
			src:  "title: a" + spaces + "b" + spaces + "\n---\n",
			find: func(doc grammar.Pair) grammar.Pair { return doc.Inner[0].Inner[0].Inner[0] },
			want: "a" + spaces + "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start := time.Now()
			pairs, err := grammar.Parse(grammar.Document, tt.src, grammar.Options{})
			elapsed := time.Since(start)

			require.NoError(t, err)
			require.Len(t, pairs, 1)
			assert.Less(t, elapsed, 2*time.Second, "whitespace runs must be scanned in linear time")

			got := tt.find(pairs[0])
			assert.Equal(t, grammar.PlainText, got.Rule)
			assert.Equal(t, tt.want, got.Str())
		})
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	pairs, err := grammar.Parse(grammar.Header, "title: T\n---\n#-broken[", grammar.Options{})
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	header := pairs[0]
	assert.Equal(t, grammar.Header, header.Rule)
	require.Len(t, header.Inner, 2)
	assert.Equal(t, grammar.Title, header.Inner[0].Rule)
	assert.Equal(t, "T", header.Inner[0].Str())
	assert.Equal(t, grammar.DocumentProps, header.Inner[1].Rule)
}

func TestParse_UnsupportedEntry(t *testing.T) {
	t.Parallel()

	_, err := grammar.Parse(grammar.Paragraph, "x", grammar.Options{})
	require.Error(t, err)
}
