package codegen

import (
	"fmt"
	"strings"

	"github.com/weliveindetail/protog/graph"
)

// leafNodes returns every Bool/Long/Double/String-kind node reachable in g,
// each exactly once, by kind. KeyIntoMessage and Array nodes are handled by
// their own dedicated writers since they push and pop frames instead of
// just assigning a scalar.
func leafNodes(g *graph.Graph) []*graph.Node {
	seen := make(map[int]bool)
	var out []*graph.Node
	add := func(nodes []*graph.Node) {
		for _, n := range nodes {
			if seen[n.State] {
				continue
			}
			seen[n.State] = true
			out = append(out, n)
		}
	}
	add(g.BoolNodes)
	add(g.DoubleNodes)
	add(g.StringNodes)
	for _, n := range g.LongNodes {
		if n.Kind == graph.Long {
			add([]*graph.Node{n})
		}
	}
	return out
}

// ownerAssign renders the statement that recovers the concrete owner
// struct pointer from the current frame's Target.
func ownerAssign(n *graph.Node, opts Options) string {
	return fmt.Sprintf("m := fr.Target.(*%s.%s)", opts.alias(), goMessageType(n.Owner))
}

// writeScalarHandler renders one of onBool/onInteger/onDouble/onString:
// a switch over fr.Expect() covering every node in nodes, assigning the
// event value to the matched field (direct or array-append) and clearing
// Pending / setting the seen bit for direct fields.
func writeScalarHandler(b *strings.Builder, parserName, methodName, paramDecl, valueExpr string, eventKind graph.Kind, eventTypeName string, nodes []*graph.Node, opts Options) {
	fmt.Fprintf(b, "func (p *%s) %s(%s) error {\n", parserName, methodName, paramDecl)
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	if len(nodes) == 0 {
		fmt.Fprintf(b, "\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: %q})\n", eventTypeName)
		fmt.Fprintf(b, "}\n\n")
		return
	}
	fmt.Fprintf(b, "\tswitch fr.Expect() {\n")
	for _, n := range nodes {
		fmt.Fprintf(b, "\tcase %d:\n", n.State)
		fmt.Fprintf(b, "\t\t%s\n", ownerAssign(n, opts))
		rhs := scalarAssignExpr(n, valueExpr, eventKind)
		if isArrayElement(n) {
			fmt.Fprintf(b, "\t\tm.%s = append(m.%s, %s)\n", exportedField(n), exportedField(n), rhs)
		} else {
			if n.Nullable {
				fmt.Fprintf(b, "\t\tvv := %s\n", rhs)
				fmt.Fprintf(b, "\t\tm.%s = &vv\n", exportedField(n))
			} else {
				fmt.Fprintf(b, "\t\tm.%s = %s\n", exportedField(n), rhs)
			}
			fmt.Fprintf(b, "\t\tfr.Seen |= 1 << %d\n", n.BitIndex)
			fmt.Fprintf(b, "\t\tfr.Pending = 0\n")
		}
		fmt.Fprintf(b, "\t\treturn nil\n")
	}
	fmt.Fprintf(b, "\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: %q})\n", eventTypeName)
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "}\n\n")
}

func writeOnBool(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	writeScalarHandler(b, parserName, "onBool", "v bool", "v", graph.Bool, "bool", g.BoolNodes, opts)
}

func writeOnInteger(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	writeScalarHandler(b, parserName, "onInteger", "v int64", "v", graph.Long, "integer", g.LongNodes, opts)
}

func writeOnDouble(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	writeScalarHandler(b, parserName, "onDouble", "v float64", "v", graph.Double, "double", g.DoubleNodes, opts)
}

func writeOnString(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	writeScalarHandler(b, parserName, "onString", "v string", "v", graph.String, "string", g.StringNodes, opts)
}

func writeOnNull(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	var nullable []*graph.Node
	for _, n := range leafNodes(g) {
		if n.Nullable {
			nullable = append(nullable, n)
		}
	}
	for _, n := range g.KeyNodes {
		if n.Nullable && !isArrayElement(n) {
			nullable = append(nullable, n)
		}
	}

	fmt.Fprintf(b, "func (p *%s) onNull() error {\n", parserName)
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	if len(nullable) == 0 {
		fmt.Fprintf(b, "\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: \"null\"})\n")
		fmt.Fprintf(b, "}\n\n")
		return
	}
	fmt.Fprintf(b, "\tswitch fr.Expect() {\n")
	for _, n := range nullable {
		fmt.Fprintf(b, "\tcase %d:\n", n.State)
		fmt.Fprintf(b, "\t\t%s\n", ownerAssign(n, opts))
		fmt.Fprintf(b, "\t\tm.%s = nil\n", exportedField(n))
		fmt.Fprintf(b, "\t\tfr.Seen |= 1 << %d\n", n.BitIndex)
		fmt.Fprintf(b, "\t\tfr.Pending = 0\n")
		fmt.Fprintf(b, "\t\treturn nil\n")
	}
	fmt.Fprintf(b, "\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: \"null\"})\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "}\n\n")
}

// writeOnStartMap handles entry into a message: either the document root,
// whose frame Init deferred pushing until this, its own opening brace,
// actually arrives, or a nested message reached through a plain field's
// value or the next element of an array of messages.
func writeOnStartMap(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	fmt.Fprintf(b, "func (p *%s) onStartMap() error {\n", parserName)
	fmt.Fprintf(b, "\tif p.stack.Len() == 0 {\n")
	fmt.Fprintf(b, "\t\tp.stack.Push(protogrt.Frame{Mode: protogrt.ModeObject, State: 1, Target: p.root})\n")
	fmt.Fprintf(b, "\t\treturn nil\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	if len(g.KeyNodes) == 0 {
		fmt.Fprintf(b, "\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: \"start_map\"})\n")
		fmt.Fprintf(b, "}\n\n")
		return
	}
	fmt.Fprintf(b, "\tswitch fr.Expect() {\n")
	for _, n := range g.KeyNodes {
		inner := n.Children[0]
		ownerType := goMessageType(n.Owner)
		innerType := goMessageType(n.Field.Message())
		fmt.Fprintf(b, "\tcase %d:\n", n.State)
		fmt.Fprintf(b, "\t\towner := fr.Target.(*%s.%s)\n", opts.alias(), ownerType)
		fmt.Fprintf(b, "\t\telem := &%s.%s{}\n", opts.alias(), innerType)
		if isArrayElement(n) {
			fmt.Fprintf(b, "\t\towner.%s = append(owner.%s, elem)\n", exportedField(n), exportedField(n))
		} else {
			fmt.Fprintf(b, "\t\towner.%s = elem\n", exportedField(n))
			fmt.Fprintf(b, "\t\tfr.Seen |= 1 << %d\n", n.BitIndex)
			fmt.Fprintf(b, "\t\tfr.Pending = 0\n")
		}
		fmt.Fprintf(b, "\t\tp.stack.Push(protogrt.Frame{Mode: protogrt.ModeObject, State: %d, Target: elem})\n", inner.State)
		fmt.Fprintf(b, "\t\treturn nil\n")
	}
	fmt.Fprintf(b, "\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: \"start_map\"})\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "}\n\n")
}

// writeOnStartArray handles entry into an array: it always arrives via a
// map_key-selected Pending state, since proto3 has no repeated-of-repeated
// fields, so the switch keys on fr.Pending through fr.Expect().
func writeOnStartArray(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	fmt.Fprintf(b, "func (p *%s) onStartArray() error {\n", parserName)
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	if len(g.ArrayNodes) == 0 {
		fmt.Fprintf(b, "\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: \"start_array\"})\n")
		fmt.Fprintf(b, "}\n\n")
		return
	}
	fmt.Fprintf(b, "\tswitch fr.Expect() {\n")
	for _, n := range g.ArrayNodes {
		elem := n.Children[0]
		fmt.Fprintf(b, "\tcase %d:\n", n.State)
		fmt.Fprintf(b, "\t\towner := fr.Target.(*%s.%s)\n", opts.alias(), goMessageType(n.Owner))
		fmt.Fprintf(b, "\t\tfr.Seen |= 1 << %d\n", n.BitIndex)
		fmt.Fprintf(b, "\t\tfr.Pending = 0\n")
		fmt.Fprintf(b, "\t\tp.stack.Push(protogrt.Frame{Mode: protogrt.ModeArray, State: %d, Target: owner})\n", elem.State)
		fmt.Fprintf(b, "\t\treturn nil\n")
	}
	fmt.Fprintf(b, "\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.Expect(), Event: \"start_array\"})\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "}\n\n")
}

func writeOnEndArray(b *strings.Builder, parserName string) {
	fmt.Fprintf(b, "func (p *%s) onEndArray() error {\n", parserName)
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	fmt.Fprintf(b, "\tif fr.Mode != protogrt.ModeArray {\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"end_array\"})\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\tp.stack.Pop()\n")
	fmt.Fprintf(b, "\treturn nil\n")
	fmt.Fprintf(b, "}\n\n")
}

// writeOnEndMap pops the current object frame, rejecting it first, when
// Config.CheckInitialized is set, if any of its non-nullable fields was
// never seen. Because frames are pushed and
// popped in lock-step with start_map/end_map, this always unwinds to the
// correct immediate parent regardless of nesting depth or array context,
// sidestepping the original generator's ancestor-counting mistake.
func writeOnEndMap(b *strings.Builder, parserName string, g *graph.Graph, opts Options) {
	fmt.Fprintf(b, "func (p *%s) onEndMap() error {\n", parserName)
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	fmt.Fprintf(b, "\tif fr.Mode != protogrt.ModeObject {\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"end_map\"})\n")
	fmt.Fprintf(b, "\t}\n")
	if len(g.MessageNodes) > 0 {
		fmt.Fprintf(b, "\tif p.cfg.CheckInitialized {\n")
		fmt.Fprintf(b, "\t\tswitch fr.State {\n")
		for _, n := range g.MessageNodes {
			var required []*graph.Node
			for _, c := range n.Children {
				if !c.Nullable {
					required = append(required, c)
				}
			}
			if len(required) == 0 {
				continue
			}
			fmt.Fprintf(b, "\t\tcase %d:\n", n.State)
			for _, c := range required {
				fmt.Fprintf(b, "\t\t\tif fr.Seen&(1<<%d) == 0 {\n", c.BitIndex)
				fmt.Fprintf(b, "\t\t\t\treturn p.fail(&protogrt.MissingRequiredFieldError{Message: %q, Field: %q})\n", descriptorName(n), c.Name)
				fmt.Fprintf(b, "\t\t\t}\n")
			}
		}
		fmt.Fprintf(b, "\t\t}\n")
		fmt.Fprintf(b, "\t}\n")
	}
	fmt.Fprintf(b, "\tp.stack.Pop()\n")
	fmt.Fprintf(b, "\treturn nil\n")
	fmt.Fprintf(b, "}\n\n")
}

// writeOnMapKey dispatches an incoming key to the field it names by
// hashing it with protogrt.KeyHash, the same function buildKeyTable used
// to lay the switch out, and storing the matched child's state as the
// frame's Pending value for the next value event to consume.
func writeOnMapKey(b *strings.Builder, parserName string, g *graph.Graph, keyTables map[int][]keyEntry, opts Options) {
	fmt.Fprintf(b, "func (p *%s) onMapKey(key string) error {\n", parserName)
	fmt.Fprintf(b, "\tfr := p.stack.Top()\n")
	fmt.Fprintf(b, "\tif fr.Mode != protogrt.ModeObject {\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"map_key:\" + key})\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\tswitch fr.State {\n")
	for _, n := range g.MessageNodes {
		fmt.Fprintf(b, "\tcase %d:\n", n.State)
		entries := keyTables[n.State]
		if len(entries) == 0 {
			fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"map_key:\" + key})\n")
			continue
		}
		fmt.Fprintf(b, "\t\tswitch protogrt.KeyHash(key) {\n")
		for _, e := range entries {
			fmt.Fprintf(b, "\t\tcase 0x%x:\n", e.Hash)
			fmt.Fprintf(b, "\t\t\tif key != %q {\n", e.Key)
			fmt.Fprintf(b, "\t\t\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"map_key:\" + key})\n")
			fmt.Fprintf(b, "\t\t\t}\n")
			fmt.Fprintf(b, "\t\t\tfr.Pending = %d\n", e.Child.State)
			fmt.Fprintf(b, "\t\t\treturn nil\n")
		}
		fmt.Fprintf(b, "\t\tdefault:\n")
		fmt.Fprintf(b, "\t\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"map_key:\" + key})\n")
		fmt.Fprintf(b, "\t\t}\n")
	}
	fmt.Fprintf(b, "\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn p.fail(&protogrt.UnexpectedEventError{State: fr.State, Event: \"map_key:\" + key})\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "}\n\n")
}
