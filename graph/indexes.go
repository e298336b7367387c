package graph

// Graph is the parse graph for one root message: a tree of Nodes, indexed
// by Kind so the Emitter can generate one dispatch table per JSON event
// type without re-walking the tree.
type Graph struct {
	Root      *Node
	NumStates int

	// Per-kind indexes, populated in the order nodes are allocated
	// (pre-order, field-declaration order within a message).
	BoolNodes    []*Node
	LongNodes    []*Node
	DoubleNodes  []*Node
	StringNodes  []*Node
	KeyNodes     []*Node // KeyIntoMessage
	MessageNodes []*Node // InsideMessage, including Root
	ArrayNodes   []*Node

	// RequiredMask maps an InsideMessage node's State to the bitmask of
	// BitIndex positions among its direct children that are NOT nullable,
	// i.e. must be seen before end_map succeeds.
	RequiredMask map[int]uint64
}

func (g *Graph) index(n *Node) {
	switch n.Kind {
	case Bool:
		g.BoolNodes = append(g.BoolNodes, n)
		g.LongNodes = append(g.LongNodes, n) // widening: bool accepts 0/1
	case Long:
		g.LongNodes = append(g.LongNodes, n)
	case Double:
		g.DoubleNodes = append(g.DoubleNodes, n)
		g.LongNodes = append(g.LongNodes, n) // widening: double accepts an integer literal
	case String:
		g.StringNodes = append(g.StringNodes, n)
	case KeyIntoMessage:
		g.KeyNodes = append(g.KeyNodes, n)
	case InsideMessage:
		g.MessageNodes = append(g.MessageNodes, n)
	case Array:
		g.ArrayNodes = append(g.ArrayNodes, n)
	}
}
