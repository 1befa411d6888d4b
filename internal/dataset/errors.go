package dataset

import (
	"errors"
	"fmt"
)

// ErrSchema matches every *SchemaError via errors.Is.
var ErrSchema = errors.New("schema error")

// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported input format")

var errNotIdentifier = errors.New("not an identifier")

// SchemaError reports a required column that is absent or a cell of the wrong type.
// Row is the 1-based sheet line (header is line 1); zero means the header itself.
type SchemaError struct {
	Column string
	Row    int
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("schema error: column %s, line %d: %s (value %q)", e.Column, e.Row, e.Reason, e.Value)
	}
	return fmt.Sprintf("schema error: column %s: %s", e.Column, e.Reason)
}

// Is lets errors.Is(err, ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
