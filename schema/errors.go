package schema

import "fmt"

// SchemaOpenError is returned when the IDL file cannot be read at all.
type SchemaOpenError struct {
	Path string
	Err  error
}

func (e *SchemaOpenError) Error() string {
	return fmt.Sprintf("open schema %s: %v", e.Path, e.Err)
}

func (e *SchemaOpenError) Unwrap() error { return e.Err }

// SchemaParseError is returned when the IDL text is syntactically invalid.
type SchemaParseError struct {
	Path string
	Err  error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("parse schema %s: %v", e.Path, e.Err)
}

func (e *SchemaParseError) Unwrap() error { return e.Err }

// SchemaBuildError is returned when the descriptor pool rejects the parsed
// file: duplicate symbols, a field referencing an unknown type, and so on.
type SchemaBuildError struct {
	Path string
	Err  error
}

func (e *SchemaBuildError) Error() string {
	return fmt.Sprintf("build schema %s: %v", e.Path, e.Err)
}

func (e *SchemaBuildError) Unwrap() error { return e.Err }

// MessageNotFoundError is returned when the requested root message name is
// not registered in the file once it has loaded successfully.
type MessageNotFoundError struct {
	Name string
	Path string
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("message %q not found in %s", e.Name, e.Path)
}
