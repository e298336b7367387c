package graph

import "google.golang.org/protobuf/reflect/protoreflect"

// Node is one state in the parse graph: a pushdown-automaton state reachable
// while consuming the JSON event stream for a message. The graph as a whole
// is the Node reachable as Graph.Root, plus everything reachable from it
// through Children.
type Node struct {
	// State is the node's 1-based index into the emitted state machine.
	// State 1 is always Graph.Root.
	State int

	Kind Kind

	// Name is the field name this node was derived from, or "" for
	// InsideMessage nodes (the root and nested message bodies). The element
	// node beneath an Array node repeats its Array node's field name.
	Name string

	// FullName is a diagnostic dotted path, built by the same formula the
	// original C++ generator used, with the redesigned Array/element
	// naming from spec.md §9. It has no bearing on correctness.
	FullName string

	// TypeName holds a human-readable rendering of the underlying proto
	// type, for diagnostics only. Build does not set it, so it is empty on
	// every node Build returns.
	TypeName string

	// Field is the descriptor this node was derived from. It is nil for
	// InsideMessage nodes (the root and nested message bodies); an Array
	// element node carries the same Field as its Array node.
	Field protoreflect.FieldDescriptor

	// Owner is set on every node. On an InsideMessage node it is the
	// message whose body the node stands for; on a field node or an Array
	// element node it is the message that declares the field.
	Owner protoreflect.MessageDescriptor

	Parent   *Node
	Children []*Node

	// BitIndex is this node's bit position in its parent InsideMessage's
	// seen-field bitmask, or -1 if the node is not a direct child of an
	// InsideMessage node (the root itself, and Array element nodes).
	BitIndex int

	// Nullable reports whether the IDL declared this field with the
	// `optional` keyword, making it legal to omit or pass JSON null.
	// It is only meaningful on direct children of an InsideMessage node.
	Nullable bool
}

func newNode(state int, kind Kind) *Node {
	return &Node{State: state, Kind: kind, BitIndex: -1}
}
