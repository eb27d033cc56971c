package configloader

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yaklabco/prosidy/pkg/codec"
	"github.com/yaklabco/prosidy/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "manifest.jobs").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateFields(cfg, result)
	validateCombinations(cfg, result)

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	return withFile(Validate(cfg), filePath)
}

// validateFile checks a single config layer. Cross-field rules are left to
// the merged configuration.
func validateFile(cfg *config.Config, filePath string) *ValidationResult {
	result := &ValidationResult{}
	validateFields(cfg, result)
	return withFile(result, filePath)
}

func withFile(result *ValidationResult, filePath string) *ValidationResult {
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

func validateFields(cfg *config.Config, result *ValidationResult) {
	if cfg.Format != "" {
		if _, err := codec.ParseFormat(cfg.Format); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "format",
				Value:   cfg.Format,
				Message: err.Error(),
			})
		}
	}

	if cfg.Manifest.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "manifest.jobs",
			Value:   cfg.Manifest.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	for i, ext := range cfg.Manifest.Extensions {
		if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) || len(ext) < 2 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("manifest.extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("invalid extension %q; must start with a dot, e.g. \".pro\"", ext),
			})
		}
	}

	for i, href := range cfg.Stylesheets {
		if strings.TrimSpace(href) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("stylesheets[%d]", i),
				Value:   href,
				Message: "stylesheet href must not be empty",
			})
		}
	}

	if prefix := cfg.Namespace.Prefix; prefix != "" {
		switch {
		case !isNCName(prefix):
			result.Errors = append(result.Errors, ValidationError{
				Field:   "namespace.prefix",
				Value:   prefix,
				Message: fmt.Sprintf("invalid namespace prefix %q; must be an XML name without colons", prefix),
			})
		case prefix == codec.ReservedPrefix || strings.HasPrefix(strings.ToLower(prefix), "xml"):
			result.Errors = append(result.Errors, ValidationError{
				Field:   "namespace.prefix",
				Value:   prefix,
				Message: fmt.Sprintf("namespace prefix %q is reserved", prefix),
			})
		}
	}

	validateIgnorePatterns(cfg, result)
}

func validateCombinations(cfg *config.Config, result *ValidationResult) {
	ns := cfg.Namespace
	if (ns.Prefix == "") != (ns.URI == "") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "namespace",
			Value:   ns,
			Message: "namespace prefix and uri must be set together",
		})
	}

	format, err := codec.ParseFormat(cfg.Format)
	if cfg.Format == "" || err != nil {
		return
	}

	if format != codec.FormatXML && (len(cfg.Stylesheets) > 0 || !ns.IsZero()) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("stylesheets and namespace only apply to xml output; format is %s", format),
		})
	}
	if format != codec.FormatJSON && config.BoolValue(cfg.Pretty) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "pretty",
			Value:   true,
			Message: fmt.Sprintf("pretty only applies to json output; format is %s", format),
		})
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Manifest.Ignore {
		// "**" segments are handled by the scanner; the rest must be a valid
		// filepath.Match pattern.
		trimmed := strings.TrimPrefix(strings.TrimSuffix(pattern, "/**"), "**/")
		if _, err := filepath.Match(trimmed, ""); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("manifest.ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// isNCName reports whether s is a valid XML name without colons.
func isNCName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return s != ""
}
