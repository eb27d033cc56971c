// Package codec serializes Prosidy documents.
//
// Two independent paths are provided. The event stream (Encoder, WriteXML)
// renders a document as XML-like structural events using an explicit stack,
// so nesting depth never grows the call stack. The structured path
// (Marshal, Unmarshal) maps the tree to a tagged-union value for JSON, CBOR
// and YAML, and round-trips exactly.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for format names and extensions that are not
// recognized.
var ErrUnknownFormat = errors.New("unknown format")

// Format represents an output format.
type Format string

// Output formats.
const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatCBOR, FormatYAML, FormatXML}
}

// ParseFormat parses a format name. Matching is case-insensitive and "yml"
// is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w %q; valid formats: json, cbor, yaml, xml", ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatCBOR, FormatYAML, FormatXML:
		return true
	default:
		return false
	}
}

// MediaType returns the IANA media type for the format.
func (f Format) MediaType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCBOR:
		return "application/cbor"
	case FormatYAML:
		return "application/yaml"
	case FormatXML:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the conventional file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// IsBinary reports whether the format produces non-text output.
func (f Format) IsBinary() bool {
	return f == FormatCBOR
}
