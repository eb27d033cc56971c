package grammar

import (
	"fmt"
	"strings"
)

// SyntaxError reports input the grammar could not match. It points at the
// furthest offset the matcher reached before giving up.
type SyntaxError struct {
	// Offset is the byte offset of the failure.
	Offset int

	// Pos is Offset as a line and column.
	Pos Position

	// Expected lists what would have allowed matching to continue.
	Expected []string

	// Message replaces the expectation list when set.
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
	case len(e.Expected) == 1:
		return fmt.Sprintf("syntax error at %s: expected %s", e.Pos, e.Expected[0])
	case len(e.Expected) > 1:
		return fmt.Sprintf("syntax error at %s: expected one of %s", e.Pos, strings.Join(e.Expected, ", "))
	default:
		return fmt.Sprintf("syntax error at %s", e.Pos)
	}
}
