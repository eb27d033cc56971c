package codec

import (
	"fmt"
	"io"

	"github.com/yaklabco/prosidy/pkg/ast"
)

// Encode writes doc to w in the given format.
func Encode(w io.Writer, format Format, doc *ast.Document, opts Options) error {
	switch format {
	case FormatXML:
		return WriteXML(w, doc, opts)
	case FormatJSON, FormatCBOR, FormatYAML:
		return writeStructured(w, format, doc, opts.Pretty)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}
