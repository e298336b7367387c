package codegen

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/weliveindetail/protog/graph"
	"github.com/weliveindetail/protog/internal/gonames"
)

// goMessageType renders the protoc-gen-go struct name for md, joining
// enclosing message names with underscores the way protoc-gen-go names
// nested message types.
func goMessageType(md protoreflect.MessageDescriptor) string {
	names := []string{gonames.Exported(string(md.Name()))}
	parent := md.Parent()
	for {
		pm, ok := parent.(protoreflect.MessageDescriptor)
		if !ok {
			break
		}
		names = append([]string{gonames.Exported(string(pm.Name()))}, names...)
		parent = pm.Parent()
	}
	return strings.Join(names, "_")
}

// goEnumType renders the protoc-gen-go type name for an enum descriptor,
// by the same nesting rule as goMessageType.
func goEnumType(ed protoreflect.EnumDescriptor) string {
	names := []string{gonames.Exported(string(ed.Name()))}
	parent := ed.Parent()
	for {
		pm, ok := parent.(protoreflect.MessageDescriptor)
		if !ok {
			break
		}
		names = append([]string{gonames.Exported(string(pm.Name()))}, names...)
		parent = pm.Parent()
	}
	return strings.Join(names, "_")
}

// goScalarType renders the Go type protoc-gen-go would use for a Long- or
// Double-kind field's wire type.
func goScalarType(n *graph.Node) string {
	switch n.Field.Kind() {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return "int32"
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return "int64"
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return "uint32"
	case protoreflect.Fixed64Kind:
		return "uint64"
	case protoreflect.FloatKind:
		return "float32"
	case protoreflect.DoubleKind:
		return "float64"
	case protoreflect.EnumKind:
		return goEnumType(n.Field.Enum())
	default:
		return "int64"
	}
}

// isArrayElement reports whether n was allocated as the per-element node
// beneath an Array node, as opposed to a direct field of an InsideMessage.
func isArrayElement(n *graph.Node) bool {
	return n.Parent != nil && n.Parent.Kind == graph.Array
}

// scalarAssignExpr renders the Go expression that converts a SAX event's
// native Go value (held in valueExpr, of Go type eventKind's natural
// representation) into the type n's field expects, honoring the widening
// rules a Long or Double event may trigger.
func scalarAssignExpr(n *graph.Node, valueExpr string, eventKind graph.Kind) string {
	switch n.Kind {
	case graph.Bool:
		if eventKind == graph.Bool {
			return valueExpr
		}
		return valueExpr + " != 0" // integer 0/1 widened into a bool field
	case graph.Long:
		return goScalarType(n) + "(" + valueExpr + ")"
	case graph.Double:
		return goScalarType(n) + "(" + valueExpr + ")"
	case graph.String:
		return valueExpr
	default:
		return valueExpr
	}
}
