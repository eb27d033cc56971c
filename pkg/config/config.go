// Package config defines core configuration types for prosidy.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

// DefaultMaxDepth is the default nesting limit for the parser.
const DefaultMaxDepth = 256

// NamespaceConfig declares an extra XML namespace on the document element.
type NamespaceConfig struct {
	Prefix string `yaml:"prefix"`
	URI    string `yaml:"uri"`
}

// IsZero reports whether no namespace is configured.
func (n NamespaceConfig) IsZero() bool {
	return n.Prefix == "" && n.URI == ""
}

// ManifestConfig controls directory scans.
type ManifestConfig struct {
	// Extensions lists the source file extensions, with leading dot.
	Extensions []string `yaml:"extensions,omitempty"`

	// Jobs is the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"jobs"`

	// FollowSymlinks enables walking through symlinked files and directories.
	FollowSymlinks *bool `yaml:"follow_symlinks"`

	// IncludeVendored disables skipping node_modules/, vendor/ and similar.
	IncludeVendored *bool `yaml:"include_vendored"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`
}

// Config is the root configuration structure for prosidy.
type Config struct {
	// Format is the default output format: json, cbor, yaml or xml.
	// Empty means infer it from the output path.
	Format string `yaml:"format"`

	// Pretty indents JSON output.
	Pretty *bool `yaml:"pretty"`

	// Stylesheets are XSLT hrefs attached to XML output.
	Stylesheets []string `yaml:"stylesheets,omitempty"`

	// Namespace is declared on the XML document element.
	Namespace NamespaceConfig `yaml:"namespace"`

	// Manifest configures the manifest command.
	Manifest ManifestConfig `yaml:"manifest"`

	// MaxDepth bounds parser nesting. Negative disables the limit.
	MaxDepth int `yaml:"max_depth"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Format:   "",
		Pretty:   Bool(false),
		MaxDepth: DefaultMaxDepth,
		Manifest: ManifestConfig{
			Extensions:      []string{".pro"},
			Jobs:            0,
			FollowSymlinks:  Bool(false),
			IncludeVendored: Bool(false),
		},
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// BoolValue dereferences p, treating nil as false.
func BoolValue(p *bool) bool {
	return p != nil && *p
}
