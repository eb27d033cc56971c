package configloader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/prosidy/pkg/config"
)

// envVarPrefix is the prefix for all prosidy environment variables.
const envVarPrefix = "PROSIDY_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds an environment variable to a config field.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMAT":              {"format", envTypeString, "Output format: json, cbor, yaml, or xml"},
	"PRETTY":              {"pretty", envTypeBool, "Indent JSON output: true or false"},
	"STYLESHEETS":         {"stylesheets", envTypeSlice, "Comma-separated XSLT hrefs for XML output"},
	"NAMESPACE_PREFIX":    {"namespace.prefix", envTypeString, "Namespace prefix for XML tag names"},
	"NAMESPACE_URI":       {"namespace.uri", envTypeString, "Namespace URI bound to the prefix"},
	"MAX_DEPTH":           {"max_depth", envTypeInt, "Maximum tag nesting depth (negative = unlimited)"},
	"MANIFEST_EXTENSIONS": {"manifest.extensions", envTypeSlice, "Comma-separated source extensions"},
	"MANIFEST_JOBS":       {"manifest.jobs", envTypeInt, "Number of parallel manifest workers (0 = auto)"},
	"MANIFEST_IGNORE":     {"manifest.ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"FOLLOW_SYMLINKS":     {"manifest.follow_symlinks", envTypeBool, "Follow symlinks when scanning: true or false"},
	"INCLUDE_VENDORED":    {"manifest.include_vendored", envTypeBool, "Scan vendored directories: true or false"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// environ has the os.Environ form. Variables are prefixed with PROSIDY_
// (e.g., PROSIDY_FORMAT); empty values are ignored.
func LoadFromEnv(cfg *config.Config, environ []string) error {
	if cfg == nil {
		return nil
	}

	values := make(map[string]string, len(envMappings))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if suffix, ok := strings.CutPrefix(name, envVarPrefix); ok {
			values[suffix] = value
		}
	}

	// Sorted so the first reported error is stable.
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	slices.Sort(suffixes)

	for _, suffix := range suffixes {
		value, ok := values[suffix]
		if !ok {
			continue
		}
		if err := applyEnvValue(cfg, envMappings[suffix], value, envVarPrefix+suffix); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = value
	case "namespace.prefix":
		cfg.Namespace.Prefix = value
	case "namespace.uri":
		cfg.Namespace.URI = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "pretty":
		cfg.Pretty = config.Bool(value)
	case "manifest.follow_symlinks":
		cfg.Manifest.FollowSymlinks = config.Bool(value)
	case "manifest.include_vendored":
		cfg.Manifest.IncludeVendored = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "max_depth":
		cfg.MaxDepth = value
	case "manifest.jobs":
		cfg.Manifest.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "stylesheets":
		cfg.Stylesheets = value
	case "manifest.extensions":
		cfg.Manifest.Extensions = value
	case "manifest.ignore":
		cfg.Manifest.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
