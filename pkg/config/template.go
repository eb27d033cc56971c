package config

import (
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every field with its default value instead of a
	// commented minimal file.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		content, err := NewConfig().ToYAMLWithHeader(DefaultTemplateHeader())
		if err != nil {
			return nil, fmt.Errorf("generate full template: %w", err)
		}
		return content, nil
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# prosidy configuration
# See: https://github.com/yaklabco/prosidy

# Default output format: json, cbor, yaml or xml.
# When unset the format is inferred from the output file extension.
# format: json

# Indent JSON output
# pretty: false

# XSLT stylesheets attached to XML output
# stylesheets:
#   - style.xsl

# Extra namespace declared on the XML document element
# namespace:
#   prefix: ex
#   uri: https://example.com/ns

# Maximum nesting depth accepted by the parser (negative = unlimited)
# max_depth: 256

# Manifest scanning
# manifest:
#   extensions: [".pro"]
#   jobs: 0
#   follow_symlinks: false
#   include_vendored: false
#   ignore:
#     - "drafts/**"
`

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# prosidy configuration
# See: https://github.com/yaklabco/prosidy`
}
