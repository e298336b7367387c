// Package graph builds the parse graph: the pushdown-automaton state
// machine the Emitter turns into Go dispatch code. One Node corresponds to
// one automaton state; the graph's shape is a pre-order walk of a message
// descriptor's fields, with repeated and nested-message fields recursively
// expanded in place, following spec.md §4.2's algorithm.
package graph

import (
	"io"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// counter hands out 1-based state numbers in allocation order.
type counter struct{ n int }

func (c *counter) next() int {
	c.n++
	return c.n
}

func logOrDiscard(log *logrus.Logger) *logrus.Logger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Build walks md's fields and produces the parse graph rooted at an
// InsideMessage node representing md itself. log may be nil, in which case
// the build proceeds silently.
func Build(md protoreflect.MessageDescriptor, log *logrus.Logger) (*Graph, error) {
	log = logOrDiscard(log)
	log.WithField("message", md.FullName()).Debug("building parse graph")

	g := &Graph{RequiredMask: map[int]uint64{}}
	c := &counter{}

	root := newNode(c.next(), InsideMessage)
	root.FullName = "."
	root.Owner = md
	g.Root = root
	g.index(root)

	if err := buildFields(g, c, root, md); err != nil {
		return nil, err
	}
	g.NumStates = c.n

	log.WithFields(logrus.Fields{
		"message": md.FullName(),
		"states":  g.NumStates,
		"nodes":   len(g.MessageNodes),
	}).Debug("parse graph built")
	return g, nil
}

// buildFields allocates one child node per field of md beneath parent (an
// InsideMessage node), recursing into nested messages and array elements,
// and records parent's required-field bitmask once all children are known.
func buildFields(g *Graph, c *counter, parent *Node, md protoreflect.MessageDescriptor) error {
	fields := md.Fields()
	if fields.Len() > 64 {
		return &TooManyFieldsError{Message: string(md.FullName()), Count: fields.Len()}
	}

	var required uint64
	for i := 0; i < fields.Len(); i++ {
		f := fields.Get(i)

		k, err := kindOf(f, string(md.FullName()))
		if err != nil {
			return err
		}

		child := newNode(c.next(), k)
		child.Name = string(f.Name())
		child.FullName = parent.FullName + child.Name
		child.Field = f
		child.Owner = md
		child.BitIndex = i
		child.Nullable = f.HasOptionalKeyword()
		child.Parent = parent
		parent.Children = append(parent.Children, child)

		if !child.Nullable {
			required |= 1 << uint(i)
		}

		if f.IsList() {
			elementFullName := child.FullName
			child.Kind = Array
			child.FullName = elementFullName + "[]"
			g.index(child)

			elem := newNode(c.next(), k)
			elem.Name = child.Name
			elem.FullName = elementFullName
			elem.Field = f
			elem.Owner = md
			elem.Parent = child
			child.Children = append(child.Children, elem)
			g.index(elem)

			if k == KeyIntoMessage {
				if err := descendMessage(g, c, elem, f); err != nil {
					return err
				}
			}
		} else {
			g.index(child)
			if k == KeyIntoMessage {
				if err := descendMessage(g, c, child, f); err != nil {
					return err
				}
			}
		}
	}

	g.RequiredMask[parent.State] = required
	return nil
}

// descendMessage allocates the InsideMessage node for a nested message
// field, beneath keyNode (a KeyIntoMessage node, either the field's own
// node or its array element node), and recurses into its fields.
func descendMessage(g *Graph, c *counter, keyNode *Node, f protoreflect.FieldDescriptor) error {
	inner := newNode(c.next(), InsideMessage)
	inner.FullName = keyNode.FullName + "."
	inner.Owner = f.Message()
	inner.Parent = keyNode
	keyNode.Children = append(keyNode.Children, inner)
	g.index(inner)

	return buildFields(g, c, inner, f.Message())
}

// kindOf maps a field's wire kind to one of the graph's seven node kinds,
// following original_source/src/protog.cpp's own TYPE_* -> NodeType::LONG
// mapping, which accepts fixed64 alongside int64/sint64/sfixed64. uint64 is
// rejected even though it parses as a valid proto3 descriptor (the Schema
// Loader accepts it): unlike the signed 64-bit kinds, it has no JSON integer
// representation that survives round-tripping through strconv.ParseInt, so
// the generator refuses to emit code that would silently misparse it.
// Groups are rejected as a legacy proto2 feature with no proto3 JSON mapping.
func kindOf(f protoreflect.FieldDescriptor, ownerFullName string) (Kind, error) {
	switch f.Kind() {
	case protoreflect.BoolKind:
		return Bool, nil
	case protoreflect.Int32Kind, protoreflect.Int64Kind, protoreflect.Uint32Kind,
		protoreflect.Sint32Kind, protoreflect.Sint64Kind,
		protoreflect.Fixed32Kind, protoreflect.Fixed64Kind,
		protoreflect.Sfixed32Kind, protoreflect.Sfixed64Kind,
		protoreflect.EnumKind:
		return Long, nil
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return Double, nil
	case protoreflect.StringKind:
		return String, nil
	case protoreflect.MessageKind:
		return KeyIntoMessage, nil
	default:
		return 0, &UnsupportedTypeError{
			Message: ownerFullName,
			Field:   string(f.Name()),
			Type:    f.Kind().String(),
		}
	}
}
