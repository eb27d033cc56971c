package manifest_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/codec"
	"github.com/yaklabco/prosidy/pkg/manifest"
	"github.com/yaklabco/prosidy/pkg/parser"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.pro":                  "title: Alpha\nauthor: Ann\n---\nBody.\n",
		"notes/b.pro":            "title: Beta\ndraft\n---\n",
		"notes/readme.txt":       "not prosidy",
		"broken.pro":             "title: bad \\q\n---\n",
		"bin.pro":                "\x00\x01\x02binary",
		"node_modules/dep.pro":   "title: Vendored\n---\n",
		".hidden/secret.pro":     "title: Hidden\n---\n",
		"notes/.draft.pro":       "title: Dotfile\n---\n",
		"notes/deeper/plain.pro": "No header here.\n",
	})
	return root
}

func paths(m *manifest.Manifest) []string {
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Path)
	}
	return out
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	m, err := manifest.Scan(context.Background(), manifest.Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pro", "broken.pro", "notes/b.pro", "notes/deeper/plain.pro"}, paths(m))
	assert.Equal(t, manifest.Stats{Discovered: 5, Parsed: 3, Failed: 1, Skipped: 2}, m.Stats)
	assert.True(t, m.HasFailures())

	alpha, ok := m.Lookup("a.pro")
	require.True(t, ok)
	assert.Equal(t, "Alpha", alpha.Title().String())
	author, ok := alpha.Props().Lookup(ast.Intern("author"))
	require.True(t, ok)
	assert.Equal(t, "Ann", author.String())
	assert.True(t, author.IsOwned(), "manifest entries own their text")

	beta, ok := m.Lookup("notes/b.pro")
	require.True(t, ok)
	assert.True(t, beta.Props().IsSet(ast.Intern("draft")))

	plain, ok := m.Lookup("notes/deeper/plain.pro")
	require.True(t, ok)
	assert.True(t, plain.Props().IsEmpty())

	failures := m.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "broken.pro", failures[0].Path)
	require.ErrorIs(t, failures[0].Err, parser.ErrInvalidEscape)
	assert.Contains(t, failures[0].Source, "bad \\q")

	_, ok = m.Lookup("broken.pro")
	assert.False(t, ok)
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	serial, err := manifest.Scan(context.Background(), manifest.Options{Root: root, Jobs: 1})
	require.NoError(t, err)
	parallel, err := manifest.Scan(context.Background(), manifest.Options{Root: root, Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, paths(serial), paths(parallel))
	assert.Equal(t, serial.Stats, parallel.Stats)
}

func TestScan_Options(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	tests := []struct {
		name string
		opts manifest.Options
		want []string
	}{
		{
			name: "ignore directory",
			opts: manifest.Options{Ignore: []string{"notes/**"}},
			want: []string{"a.pro", "broken.pro"},
		},
		{
			name: "ignore by base name",
			opts: manifest.Options{Ignore: []string{"broken.*"}},
			want: []string{"a.pro", "notes/b.pro", "notes/deeper/plain.pro"},
		},
		{
			name: "include vendored",
			opts: manifest.Options{IncludeVendored: true, Ignore: []string{"**/notes"}},
			want: []string{"a.pro", "broken.pro", "node_modules/dep.pro"},
		},
		{
			name: "custom extensions",
			opts: manifest.Options{Extensions: []string{".txt"}},
			want: []string{"notes/readme.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.Root = root
			m, err := manifest.Scan(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(m))
		})
	}
}

func TestScan_FollowSymlinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, root, map[string]string{"local.pro": "title: Local\n---\n"})
	writeFiles(t, outside, map[string]string{"shared.pro": "title: Shared\n---\n"})

	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	// A cycle back to the root must not loop forever.
	if err := os.Symlink(root, filepath.Join(outside, "back")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	m, err := manifest.Scan(context.Background(), manifest.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"local.pro"}, paths(m))

	m, err = manifest.Scan(context.Background(), manifest.Options{Root: root, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"linked/shared.pro", "local.pro"}, paths(m))
}

func TestScan_Errors(t *testing.T) {
	t.Parallel()

	t.Run("root is a file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFiles(t, root, map[string]string{"a.pro": ""})

		_, err := manifest.Scan(context.Background(), manifest.Options{Root: filepath.Join(root, "a.pro")})
		require.ErrorIs(t, err, manifest.ErrNotDirectory)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := manifest.Scan(ctx, manifest.Options{Root: sampleTree(t)})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		m, err := manifest.Scan(context.Background(), manifest.Options{Root: t.TempDir()})
		require.NoError(t, err)
		assert.Empty(t, m.Entries)
		assert.False(t, m.HasFailures())
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.pro": "title: Alpha\nauthor: Ann\n---\n",
		"b.pro": "draft\n---\n",
		"c.pro": "title: bad \\q\n---\n",
	})

	m, err := manifest.Scan(context.Background(), manifest.Options{Root: root})
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, manifest.Write(&buf, codec.FormatJSON, m))
		assert.JSONEq(t, `{
			"a.pro": {"title": "Alpha", "properties": [], "settings": {"author": "Ann"}},
			"b.pro": {"title": "", "properties": ["draft"], "settings": {}}
		}`, buf.String())
	})

	t.Run("xml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, manifest.Write(&buf, codec.FormatXML, m))
		assert.Equal(t,
			`<?xml version="1.0" encoding="UTF-8"?>`+
				`<prosidy:manifest xmlns:prosidy="https://prosidy.org/schema/prosidy.xsd">`+
				`<prosidy:item prosidy:path="a.pro" prosidy:title="Alpha" author="Ann"></prosidy:item>`+
				`<prosidy:item prosidy:path="b.pro" prosidy:title="" draft=""></prosidy:item>`+
				`</prosidy:manifest>`+"\n",
			buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, manifest.Write(&buf, codec.FormatYAML, m))
		assert.Contains(t, buf.String(), "a.pro:")
		assert.NotContains(t, buf.String(), "c.pro")
	})
}
