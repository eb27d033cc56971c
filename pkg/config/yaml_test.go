package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prosidy/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Empty(t, cfg.Format)
	assert.False(t, config.BoolValue(cfg.Pretty))
	assert.Equal(t, config.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, []string{".pro"}, cfg.Manifest.Extensions)
	require.NotNil(t, cfg.Manifest.FollowSymlinks)
	assert.False(t, *cfg.Manifest.FollowSymlinks)
	assert.True(t, cfg.Namespace.IsZero())
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("empty config", func(t *testing.T) {
		t.Parallel()

		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
		assert.Equal(t, c, clone)
	})

	t.Run("deep copies slices and pointers", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{
			Format:      "xml",
			Pretty:      config.Bool(true),
			Stylesheets: []string{"a.xsl"},
			Namespace:   config.NamespaceConfig{Prefix: "ex", URI: "urn:ex"},
			Manifest: config.ManifestConfig{
				Extensions:     []string{".pro"},
				Ignore:         []string{"drafts/**"},
				FollowSymlinks: config.Bool(true),
				Jobs:           4,
			},
			MaxDepth: 10,
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		clone.Stylesheets[0] = "changed.xsl"
		clone.Manifest.Ignore[0] = "changed"
		clone.Manifest.Extensions[0] = ".txt"
		*clone.Pretty = false
		*clone.Manifest.FollowSymlinks = false

		assert.Equal(t, "a.xsl", original.Stylesheets[0])
		assert.Equal(t, "drafts/**", original.Manifest.Ignore[0])
		assert.Equal(t, ".pro", original.Manifest.Extensions[0])
		assert.True(t, *original.Pretty)
		assert.True(t, *original.Manifest.FollowSymlinks)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Format = "yaml"
		cfg.Namespace = config.NamespaceConfig{Prefix: "ex", URI: "urn:ex"}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "format: yaml")
		assert.Contains(t, string(data), "  prefix: ex")

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, cfg, parsed)
	})

	t.Run("with header", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAMLWithHeader("# header")
		require.NoError(t, err)
		assert.Regexp(t, `^# header\n\nformat:`, string(data))
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *config.Config
		wantErr string
	}{
		{
			name:  "empty document",
			input: "",
			want:  &config.Config{},
		},
		{
			name:  "comments only",
			input: "# nothing here\n",
			want:  &config.Config{},
		},
		{
			name: "explicit false survives",
			input: `
format: json
pretty: false
manifest:
  include_vendored: false
  jobs: 2
`,
			want: &config.Config{
				Format: "json",
				Pretty: config.Bool(false),
				Manifest: config.ManifestConfig{
					IncludeVendored: config.Bool(false),
					Jobs:            2,
				},
			},
		},
		{
			name:    "unknown key",
			input:   "flavor: gfm\n",
			wantErr: "field flavor not found",
		},
		{
			name:    "wrong type",
			input:   "max_depth: deep\n",
			wantErr: "parse yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.FromYAML([]byte(tt.input))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal parses to an empty config", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# format: json")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("full parses to defaults", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.NewConfig(), cfg)
	})
}
