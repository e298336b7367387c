// Package idl recognizes the IDL subset protog's Schema Loader accepts:
// a package declaration followed by top-level (and nested) message and enum
// declarations. It is deliberately not a full protobuf-language grammar —
// extensions, services, options, oneof, and map<> have no production here,
// so a .proto file using them fails to parse rather than silently losing
// the construct.
package idl

import "github.com/alecthomas/participle/v2/lexer"

// File is the root of a parsed IDL document.
type File struct {
	Pos lexer.Position

	Package string  `parser:"('package' @(Ident ('.' Ident)*) ';')?"`
	Decls   []*Decl `parser:"@@*"`
}

// Decl is a single top-level declaration: a message or an enum.
type Decl struct {
	Message *Message `parser:"  @@"`
	Enum    *Enum    `parser:"| @@"`
}

// Message is a message declaration. Its body may contain fields as well as
// nested message and enum declarations, in declaration order.
type Message struct {
	Pos lexer.Position

	Name     string            `parser:"'message' @Ident '{'"`
	Elements []*MessageElement `parser:"@@* '}'"`
}

// MessageElement is one entry inside a message body.
type MessageElement struct {
	Nested *Message `parser:"  @@"`
	Enum   *Enum    `parser:"| @@"`
	Field  *Field   `parser:"| @@"`
}

// Field is a single field declaration:
//
//	[repeated|optional] <type> <name> = <number>;
type Field struct {
	Pos lexer.Position

	Repeated bool   `parser:"( @'repeated'"`
	Optional bool   `parser:"| @'optional' )?"`
	Type     string `parser:"@Ident"`
	Name     string `parser:"@Ident"`
	Number   int    `parser:"'=' @Int ';'"`
}

// Enum is an enum declaration with explicit values.
type Enum struct {
	Pos lexer.Position

	Name   string       `parser:"'enum' @Ident '{'"`
	Values []*EnumValue `parser:"@@* '}'"`
}

// EnumValue is a single `Name = Number;` entry inside an enum body.
type EnumValue struct {
	Name   string `parser:"@Ident"`
	Number int    `parser:"'=' @Int ';'"`
}
