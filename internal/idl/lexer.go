package idl

import "github.com/alecthomas/participle/v2/lexer"

// tokens is the lexer for the IDL subset, built the same way
// isc-projects-stork's backend/appcfg/bind9 parser builds its configuration
// lexer: an ordered list of named regexes fed to lexer.MustSimple, with
// comments and whitespace elided before the grammar ever sees a token.
var tokens = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[.{};=]`},
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
})
