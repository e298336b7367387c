package idl

import (
	"io"

	"github.com/alecthomas/participle/v2"
)

var grammar = participle.MustBuild[File](
	participle.Lexer(tokens),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.UseLookahead(2),
)

// Parse recognizes an IDL document read from r. filename is used only for
// error messages and position reporting; it need not exist on disk.
func Parse(filename string, r io.Reader) (*File, error) {
	return grammar.Parse(filename, r)
}

// ParseString is a convenience wrapper around Parse for in-memory IDL text,
// primarily useful from tests.
func ParseString(filename, text string) (*File, error) {
	return grammar.ParseString(filename, text)
}
