// Package gonames derives exported Go identifiers from IDL names, the way
// protoc-gen-go derives struct and field names from a .proto file: split on
// underscores, title-case each word, and concatenate. Grounded on the
// teacher's internal/cases package, narrowed to the one direction (snake or
// mixed case to PascalCase) the Emitter actually needs.
package gonames

import (
	"strings"
	"unicode"
)

// Exported turns a field, message, or enum value name from the IDL into an
// exported Go identifier: camel_case and snake_case both become PascalCase,
// and an existing PascalCase name passes through unchanged.
func Exported(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_':
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unexported is Exported with its first rune lowercased, giving the
// camelCase form of a name.
func Unexported(name string) string {
	exported := Exported(name)
	if exported == "" {
		return exported
	}
	r := []rune(exported)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
