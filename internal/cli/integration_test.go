package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prosidy/internal/cli"
	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/pkg/codec"
	"github.com/yaklabco/prosidy/pkg/config"
)

const testDocument = "title: Hello\nlang: en\ndraft\n---\n\nSome #b{bold} text.\n\n#-note:\nInside a note.\n#:\n"

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command with colors disabled.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--color", "never"))

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIntegration_ContextLogger(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "doc.pro", testDocument)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "compile",
			args: []string{"compile", input, "--debug"},
			want: []string{"parsed document", "compiled document", "input="},
		},
		{
			name: "manifest",
			args: []string{"manifest", dir, "--debug"},
			want: []string{"scanning manifest", "parsed header", "root="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&logs, "info"))

			cmd := cli.NewRootCommand(testInfo())
			var stdout, stderr bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetArgs(append(tt.args, "--color", "never"))

			require.NoError(t, cmd.ExecuteContext(ctx))
			for _, want := range tt.want {
				assert.Contains(t, logs.String(), want)
			}
		})
	}
}

func TestIntegration_CompileFormats(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "doc.pro", testDocument)

	tests := []struct {
		name         string
		args         []string
		wantContains []string
	}{
		{
			name:         "json by default",
			args:         nil,
			wantContains: []string{`"title":"Hello"`, `"lang":"en"`, `"draft"`},
		},
		{
			name:         "pretty json",
			args:         []string{"--pretty"},
			wantContains: []string{"\n  \"meta\": {", `"title": "Hello"`},
		},
		{
			name:         "yaml",
			args:         []string{"-f", "yaml"},
			wantContains: []string{"title: Hello"},
		},
		{
			name: "xml",
			args: []string{"-f", "xml"},
			wantContains: []string{
				`<prosidy:document xmlns:prosidy="https://prosidy.org/schema/prosidy.xsd" prosidy:title="Hello"`,
				`<b>bold</b>`,
				`<note>`,
			},
		},
		{
			name: "xml inferred from stylesheet",
			args: []string{"--xslt", "a.xsl", "--xslt", "b.xsl"},
			wantContains: []string{
				`<?xml-stylesheet type="text/xsl" href="a.xsl"?>`,
				`<?xml-stylesheet type="text/xsl" href="b.xsl"?>`,
			},
		},
		{
			name:         "xml namespace",
			args:         []string{"-f", "xml", "--xmlns", "ex=urn:example"},
			wantContains: []string{`xmlns:ex="urn:example"`, `<ex:b>bold</ex:b>`, `ex:lang="en"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, "", append([]string{"compile", input}, tt.args...)...)
			require.NoError(t, res.err, res.stderr)

			for _, want := range tt.wantContains {
				assert.Contains(t, res.stdout, want)
			}
		})
	}
}

func TestIntegration_CompileStdin(t *testing.T) {
	t.Parallel()

	res := run(t, testDocument, "compile", "-f", "json")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, `"title":"Hello"`)

	res = run(t, testDocument, "compile", "-", "-f", "json")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, `"title":"Hello"`)
}

func TestIntegration_CompileOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "doc.pro", testDocument)

	t.Run("format from extension", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(dir, "doc.xml")
		res := run(t, "", "compile", input, "-o", output)
		require.NoError(t, res.err, res.stderr)
		assert.Empty(t, res.stdout)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`))
	})

	t.Run("cbor round trips", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(dir, "doc.cbor")
		res := run(t, "", "compile", input, "-o", output)
		require.NoError(t, res.err, res.stderr)

		data, err := os.ReadFile(output)
		require.NoError(t, err)

		doc, err := codec.Unmarshal(codec.FormatCBOR, data)
		require.NoError(t, err)
		assert.Equal(t, "Hello", doc.Meta().Title().String())
	})

	t.Run("explicit format beats extension", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(dir, "doc.out.xml")
		res := run(t, "", "compile", input, "-o", output, "-f", "yaml")
		require.NoError(t, res.err, res.stderr)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "title: Hello")
	})
}

func TestIntegration_CompileConfigFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "doc.pro", testDocument)
	cfgFile := writeFile(t, dir, "prosidy.yml", "format: yaml\n")

	res := run(t, "", "compile", input, "--config", cfgFile)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "title: Hello")

	res = run(t, "", "compile", input, "--config", cfgFile, "-f", "json")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, `"title":"Hello"`)
}

func TestIntegration_CompileParseError(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "bad.pro", "title: T\n---\n\nSome \\q text.\n")

	res := run(t, "", "compile", input)
	require.ErrorIs(t, res.err, cli.ErrParseFailed)
	assert.Equal(t, cli.ExitParseErrors, cli.ExitCode(res.err))
	assert.Empty(t, res.stdout)

	assert.Contains(t, res.stderr, "bad.pro:4:6")
	assert.Contains(t, res.stderr, "invalid escape")
	assert.Contains(t, res.stderr, "Some \\q text.")
	assert.Contains(t, res.stderr, "in rule escape")
}

func TestIntegration_CompileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "doc.pro", testDocument)

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{
			name:     "missing input",
			args:     []string{"compile", filepath.Join(dir, "missing.pro")},
			wantCode: cli.ExitIOError,
		},
		{
			name:     "malformed xmlns",
			args:     []string{"compile", input, "--xmlns", "nouri"},
			wantCode: cli.ExitInvalidUsage,
		},
		{
			name:     "unknown format",
			args:     []string{"compile", input, "-f", "html"},
			wantCode: cli.ExitConfigError,
		},
		{
			name:     "reserved namespace prefix",
			args:     []string{"compile", input, "--xmlns", "prosidy=urn:x"},
			wantCode: cli.ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.wantCode, cli.ExitCode(res.err), res.err.Error())
		})
	}
}

func TestIntegration_CompileMaxDepth(t *testing.T) {
	t.Parallel()

	nested := strings.Repeat("#a{", 10) + "x" + strings.Repeat("}", 10) + "\n"
	input := writeFile(t, t.TempDir(), "deep.pro", "title: Deep\n---\n"+nested)

	res := run(t, "", "compile", input, "--max-depth", "4")
	require.ErrorIs(t, res.err, cli.ErrParseFailed)

	res = run(t, "", "compile", input, "--max-depth=-1")
	require.NoError(t, res.err, res.stderr)
}

func TestIntegration_Manifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.pro", "title: Alpha\n---\nBody.\n")
	writeFile(t, root, "sub/b.pro", "draft\n---\n")
	writeFile(t, root, "notes.txt", "not a document")
	writeFile(t, root, "c.pro", "title: bad \\q\n---\n")

	res := run(t, "", "manifest", root)
	require.ErrorIs(t, res.err, cli.ErrParseFailed)

	assert.JSONEq(t, `{
		"a.pro": {"title": "Alpha", "properties": [], "settings": {}},
		"sub/b.pro": {"title": "", "properties": ["draft"], "settings": {}}
	}`, res.stdout)

	assert.Contains(t, res.stderr, "c.pro")
	assert.Contains(t, res.stderr, "invalid escape")
	assert.Contains(t, res.stderr, "2 headers in 3 files, 1 failed")
}

func TestIntegration_ManifestOptions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.pro", "title: Alpha\n---\n")
	writeFile(t, root, "drafts/b.pro", "title: Beta\n---\n")
	writeFile(t, root, "c.prosidy", "title: Gamma\n---\n")

	t.Run("ignore", func(t *testing.T) {
		t.Parallel()

		res := run(t, "", "manifest", root, "--ignore", "drafts/**")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stdout, `"a.pro"`)
		assert.NotContains(t, res.stdout, "drafts/b.pro")
	})

	t.Run("extensions", func(t *testing.T) {
		t.Parallel()

		res := run(t, "", "manifest", root, "--extensions", ".prosidy")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stdout, `"c.prosidy"`)
		assert.NotContains(t, res.stdout, `"a.pro"`)
	})

	t.Run("xml", func(t *testing.T) {
		t.Parallel()

		res := run(t, "", "manifest", root, "-f", "xml", "-j", "2")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stdout, `<prosidy:manifest xmlns:prosidy="https://prosidy.org/schema/prosidy.xsd">`)
		assert.Contains(t, res.stdout, `prosidy:path="drafts/b.pro"`)
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		res := run(t, "", "manifest", root, "--table")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stdout, "PATH")
		assert.Contains(t, res.stdout, "Alpha")
		assert.Contains(t, res.stdout, "Manifest complete")
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "index.yaml")
		res := run(t, "", "manifest", root, "-o", output)
		require.NoError(t, res.err, res.stderr)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "a.pro:")
	})
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, ".prosidy.yml")

	res := run(t, "", "init", "-o", output)
	require.NoError(t, res.err, res.stderr)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# format: json")

	res = run(t, "", "init", "-o", output)
	require.ErrorIs(t, res.err, cli.ErrInvalidUsage)

	res = run(t, "", "init", "-o", output, "--full", "--force")
	require.NoError(t, res.err, res.stderr)

	data, err = os.ReadFile(output)
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), cfg)
}

func TestIntegration_ConfigShow(t *testing.T) {
	t.Parallel()

	cfgFile := writeFile(t, t.TempDir(), "prosidy.yml", "format: xml\nstylesheets: [site.xsl]\n")

	res := run(t, "", "config", "show", "--config", cfgFile)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "# loaded from: "+cfgFile)
	assert.Contains(t, res.stdout, "format: xml")
	assert.Contains(t, res.stdout, "- site.xsl")
	assert.Contains(t, res.stdout, "max_depth: 256")
}

func TestIntegration_ConfigEnv(t *testing.T) {
	t.Parallel()

	res := run(t, "", "config", "env")
	require.NoError(t, res.err, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "PROSIDY_"))
	assert.Contains(t, res.stdout, "PROSIDY_FORMAT")
	assert.Contains(t, res.stdout, "PROSIDY_MANIFEST_JOBS")
}
