package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/prosidy/pkg/ast"
)

// Nesting limits of the structured decoders, counted in maps and lists.
// encoding/json and yaml.v3 stop at 10000 levels; yaml.v3 also spends a few
// levels on the stream and document.
const (
	maxTextNesting = 9_900
	maxCBORNesting = 65_535
)

// ErrTooDeep is returned when a document nests deeper than its target
// format can decode. Each tag costs three levels of nesting.
var ErrTooDeep = errors.New("document nested too deeply")

//nolint:gochecknoglobals // Modes are immutable and safe for concurrent use.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoder options: %v", err))
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		MaxNestedLevels:  maxCBORNesting,
		MaxArrayElements: 1 << 28,
		MaxMapPairs:      1 << 28,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor decoder options: %v", err))
	}
}

// Marshal encodes doc in a structured format.
func Marshal(format Format, doc *ast.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeStructured(&buf, format, doc, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document from a structured format. The result owns
// all of its text.
func Unmarshal(format Format, data []byte) (*ast.Document, error) {
	var raw any

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case FormatCBOR:
		if err := cborDec.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode CBOR: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w %q: not a structured format", ErrUnknownFormat, format)
	}

	doc, err := FromValue(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return doc, nil
}

// Decode reads all of r and decodes it with Unmarshal.
func Decode(r io.Reader, format Format) (*ast.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s input: %w", format, err)
	}
	return Unmarshal(format, data)
}

func writeStructured(w io.Writer, format Format, doc *ast.Document, pretty bool) error {
	return EncodeValue(w, format, ToValue(doc), pretty)
}

// EncodeValue writes a generic value tree in a structured format. Pretty
// indents JSON output; YAML is always indented and CBOR never is. Trees
// nested deeper than Unmarshal accepts for the format fail with ErrTooDeep
// before anything is written.
func EncodeValue(w io.Writer, format Format, value any, pretty bool) error {
	if err := checkNesting(format, value); err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, value, pretty)
	case FormatCBOR:
		if err := cborEnc.NewEncoder(w).Encode(value); err != nil {
			return fmt.Errorf("encode CBOR: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q: not a structured format", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, value any, pretty bool) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return bw.Flush()
}

func checkNesting(format Format, value any) error {
	limit := maxTextNesting
	if format == FormatCBOR {
		limit = maxCBORNesting
	}
	if depth := nestingDepth(value); depth > limit {
		return fmt.Errorf("encode %s: %w: %d levels, limit %d", format, ErrTooDeep, depth, limit)
	}
	return nil
}

// nestingDepth counts the maps and lists on the deepest path of value.
func nestingDepth(value any) int {
	type frame struct {
		value any
		depth int
	}

	deepest := 0
	stack := []frame{{value: value}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := top.value.(type) {
		case map[string]any:
			deepest = max(deepest, top.depth+1)
			for _, child := range v {
				stack = append(stack, frame{value: child, depth: top.depth + 1})
			}
		case []any:
			deepest = max(deepest, top.depth+1)
			for _, child := range v {
				stack = append(stack, frame{value: child, depth: top.depth + 1})
			}
		}
	}
	return deepest
}
