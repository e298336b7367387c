package graph

import "fmt"

// UnsupportedTypeError is returned when a field's type cannot be represented
// by any of the graph's seven node kinds: proto2 groups, and the two wire
// types the Schema Loader deliberately under-validates (bytes, uint64),
// per spec.md §4.2's supported-type subset.
type UnsupportedTypeError struct {
	Message string
	Field   string
	Type    string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s.%s: unsupported field type %s", e.Message, e.Field, e.Type)
}

// TooManyFieldsError is returned when a message declares more fields than
// fit in the 64-bit seen-field bitmask the emitted init check uses.
type TooManyFieldsError struct {
	Message string
	Count   int
}

func (e *TooManyFieldsError) Error() string {
	return fmt.Sprintf("message %s declares %d fields, more than the 64 a single seen-bitmask word can track", e.Message, e.Count)
}
