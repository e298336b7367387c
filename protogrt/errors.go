package protogrt

import "fmt"

// UnexpectedEventError is raised when a generated parser's current frame
// does not expect the event it just received: e.g. a string where a nested
// message was expected, or any value at all when no map_key has been read.
type UnexpectedEventError struct {
	State int
	Event string
}

func (e *UnexpectedEventError) Error() string {
	return fmt.Sprintf("unexpected %s event in state %d", e.Event, e.State)
}

// MissingRequiredFieldError is raised from end_map handling when a
// message's seen-bitmask does not cover every non-nullable field.
type MissingRequiredFieldError struct {
	Message string
	Field   string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %s", e.Message, e.Field)
}
