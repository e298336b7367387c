package codegen

import "fmt"

// KeyHashCollisionError is returned at generation time when two distinct
// field names on the same message hash identically under protogrt.KeyHash.
// The generator refuses to emit code for the message rather than fall back
// to a string-compare dispatch that would only kick in on a collision,
// since that path would go untested by construction.
type KeyHashCollisionError struct {
	Message string
	KeyA    string
	KeyB    string
	Hash    uint64
}

func (e *KeyHashCollisionError) Error() string {
	return fmt.Sprintf("%s: fields %q and %q hash identically (0x%x); rename one", e.Message, e.KeyA, e.KeyB, e.Hash)
}

// EmitIoError wraps a failure formatting or writing the generated source.
type EmitIoError struct {
	Err error
}

func (e *EmitIoError) Error() string { return fmt.Sprintf("emit: %v", e.Err) }
func (e *EmitIoError) Unwrap() error { return e.Err }
