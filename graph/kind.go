package graph

// Kind identifies what a Node expects to see in the JSON event stream.
type Kind int

const (
	// Bool is a scalar leaf accepting a JSON boolean (and, by widening, an
	// integer 0/1).
	Bool Kind = iota
	// Long is a scalar leaf accepting a JSON integer: int32/int64/uint32/
	// fixed32/fixed64/sint32/sint64/sfixed32/sfixed64, or an enum.
	Long
	// Double is a scalar leaf accepting a JSON number (and, by widening, an
	// integer).
	Double
	// String is a scalar leaf accepting a JSON string.
	String
	// KeyIntoMessage sits at the field key whose value is a nested message.
	// It always has exactly one child, of kind InsideMessage.
	KeyIntoMessage
	// InsideMessage sits inside the braces of a message. Its children are
	// one node per declared field, in declaration order.
	InsideMessage
	// Array sits at the field key whose value is a JSON array. It always
	// has exactly one child: the per-element node.
	Array
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Long:
		return "Long"
	case Double:
		return "Double"
	case String:
		return "String"
	case KeyIntoMessage:
		return "KeyIntoMessage"
	case InsideMessage:
		return "InsideMessage"
	case Array:
		return "Array"
	default:
		return "Kind(?)"
	}
}
