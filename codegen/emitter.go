// Package codegen is the Emitter: it turns a graph.Graph into a single Go
// source file implementing a streaming JSON parser for one message type.
// The emitted parser is thin glue around protogrt's frame stack, following
// the table-driven split yaninyzwitty-hyperpb-go uses between a generic
// runtime and per-type specializations, and it is run through go/format
// the way internal/tools/stencil formats its own generated output.
package codegen

import (
	"fmt"
	"go/format"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/weliveindetail/protog/graph"
	"github.com/weliveindetail/protog/internal/gonames"
)

// Options configures one Emit call.
type Options struct {
	// OutputPackage is the package clause of the generated file.
	OutputPackage string

	// TargetImportPath is the import path of the package declaring the
	// protoc-gen-go struct the parser populates.
	TargetImportPath string

	// TargetAlias is the local identifier the generated file uses for
	// TargetImportPath. Defaults to "target".
	TargetAlias string

	// Log receives Debug-level output: the message name on entry and the
	// emitted byte count on success. May be left nil, in which case Emit
	// proceeds silently.
	Log *logrus.Logger
}

func (o Options) alias() string {
	if o.TargetAlias != "" {
		return o.TargetAlias
	}
	return "target"
}

func (o Options) log() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Emit generates a complete .go source file implementing a streaming
// parser for md, driven by g.
func Emit(md protoreflect.MessageDescriptor, g *graph.Graph, opts Options) ([]byte, error) {
	log := opts.log()
	msgGoType := goMessageType(md)
	parserName := msgGoType + "Parser"
	log.WithField("message", md.FullName()).Debug("emitting parser")

	keyTables := make(map[int][]keyEntry, len(g.MessageNodes))
	for _, n := range g.MessageNodes {
		kt, err := buildKeyTable(n)
		if err != nil {
			return nil, err
		}
		keyTables[n.State] = kt
	}

	var b strings.Builder
	writeHeader(&b, opts, parserName)
	writeStructAndConstructor(&b, parserName, msgGoType, opts)
	writeOnNull(&b, parserName, g, opts)
	writeOnBool(&b, parserName, g, opts)
	writeOnInteger(&b, parserName, g, opts)
	writeOnDouble(&b, parserName, g, opts)
	writeOnString(&b, parserName, g, opts)
	writeOnStartMap(&b, parserName, g, opts)
	writeOnMapKey(&b, parserName, g, keyTables, opts)
	writeOnEndMap(&b, parserName, g, opts)
	writeOnStartArray(&b, parserName, g, opts)
	writeOnEndArray(&b, parserName)

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, &EmitIoError{Err: fmt.Errorf("formatting generated source: %w", err)}
	}

	log.WithFields(logrus.Fields{
		"message": md.FullName(),
		"bytes":   len(formatted),
	}).Debug("parser emitted")
	return formatted, nil
}

func writeHeader(b *strings.Builder, opts Options, parserName string) {
	fmt.Fprintf(b, "// Code generated by protog. DO NOT EDIT.\n\n")
	fmt.Fprintf(b, "package %s\n\n", opts.OutputPackage)
	fmt.Fprintf(b, "import (\n")
	fmt.Fprintf(b, "\t%s %q\n\n", opts.alias(), opts.TargetImportPath)
	fmt.Fprintf(b, "\t\"github.com/weliveindetail/protog/jsonsax\"\n")
	fmt.Fprintf(b, "\t\"github.com/weliveindetail/protog/protogrt\"\n")
	fmt.Fprintf(b, ")\n\n")
	_ = parserName
}

func writeStructAndConstructor(b *strings.Builder, parserName, msgGoType string, opts Options) {
	alias := opts.alias()

	fmt.Fprintf(b, "// %s streams JSON input into a %s.%s, field by field, without\n", parserName, alias, msgGoType)
	fmt.Fprintf(b, "// building an intermediate representation of the input.\n")
	fmt.Fprintf(b, "type %s struct {\n", parserName)
	fmt.Fprintf(b, "\ttok   *jsonsax.Tokenizer\n")
	fmt.Fprintf(b, "\tstack protogrt.Stack\n")
	fmt.Fprintf(b, "\tcfg   Config\n")
	fmt.Fprintf(b, "\terr   error\n")
	fmt.Fprintf(b, "\troot  *%s.%s\n", alias, msgGoType)
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// Config controls optional parser behavior.\n")
	fmt.Fprintf(b, "type Config struct {\n")
	fmt.Fprintf(b, "\t// CheckInitialized rejects a message missing a non-optional field at\n")
	fmt.Fprintf(b, "\t// end_map. Defaults to true; protoc-gen-go structs carry no presence\n")
	fmt.Fprintf(b, "\t// bits for plain proto3 scalars, so this is the parser's own stand-in\n")
	fmt.Fprintf(b, "\t// for the wire-level \"required\" check the original generator\n")
	fmt.Fprintf(b, "\t// delegated to its message type.\n")
	fmt.Fprintf(b, "\tCheckInitialized bool\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// DefaultConfig is the Config a freshly constructed parser starts with.\n")
	fmt.Fprintf(b, "func DefaultConfig() Config { return Config{CheckInitialized: true} }\n\n")

	fmt.Fprintf(b, "// New%s constructs a parser with DefaultConfig. Call Init before\n", parserName)
	fmt.Fprintf(b, "// feeding it input.\n")
	fmt.Fprintf(b, "func New%s() *%s {\n", parserName, parserName)
	fmt.Fprintf(b, "\tp := &%s{cfg: DefaultConfig()}\n", parserName)
	fmt.Fprintf(b, "\tp.tok = jsonsax.New(p.callbacks())\n")
	fmt.Fprintf(b, "\treturn p\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// SetConfig replaces the parser's Config. Call before Init.\n")
	fmt.Fprintf(b, "func (p *%s) SetConfig(cfg Config) { p.cfg = cfg }\n\n", parserName)

	fmt.Fprintf(b, "func (p *%s) callbacks() jsonsax.Callbacks {\n", parserName)
	fmt.Fprintf(b, "\treturn jsonsax.Callbacks{\n")
	fmt.Fprintf(b, "\t\tOnNull:       p.onNull,\n")
	fmt.Fprintf(b, "\t\tOnBool:       p.onBool,\n")
	fmt.Fprintf(b, "\t\tOnInteger:    p.onInteger,\n")
	fmt.Fprintf(b, "\t\tOnDouble:     p.onDouble,\n")
	fmt.Fprintf(b, "\t\tOnString:     p.onString,\n")
	fmt.Fprintf(b, "\t\tOnStartMap:   p.onStartMap,\n")
	fmt.Fprintf(b, "\t\tOnMapKey:     p.onMapKey,\n")
	fmt.Fprintf(b, "\t\tOnEndMap:     p.onEndMap,\n")
	fmt.Fprintf(b, "\t\tOnStartArray: p.onStartArray,\n")
	fmt.Fprintf(b, "\t\tOnEndArray:   p.onEndArray,\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// Init binds the parser to msg, which is populated in place as JSON\n")
	fmt.Fprintf(b, "// chunks arrive. The root frame is pushed lazily by onStartMap, once the\n")
	fmt.Fprintf(b, "// input's opening brace actually arrives. Init implicitly resets any\n")
	fmt.Fprintf(b, "// prior state.\n")
	fmt.Fprintf(b, "func (p *%s) Init(msg *%s.%s) {\n", parserName, alias, msgGoType)
	fmt.Fprintf(b, "\tp.Reset()\n")
	fmt.Fprintf(b, "\tp.root = msg\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// Reset clears all parser state, including any pending error, freeing\n")
	fmt.Fprintf(b, "// it for reuse with Init against a new message.\n")
	fmt.Fprintf(b, "func (p *%s) Reset() {\n", parserName)
	fmt.Fprintf(b, "\tp.stack.Reset()\n")
	fmt.Fprintf(b, "\tp.err = nil\n")
	fmt.Fprintf(b, "\tp.root = nil\n")
	fmt.Fprintf(b, "\tp.tok = jsonsax.New(p.callbacks())\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// OnChunk feeds the next slice of JSON input. The parser does not retain\n")
	fmt.Fprintf(b, "// chunk past this call.\n")
	fmt.Fprintf(b, "func (p *%s) OnChunk(chunk []byte) error {\n", parserName)
	fmt.Fprintf(b, "\tif p.err != nil {\n\t\treturn p.err\n\t}\n")
	fmt.Fprintf(b, "\tif err := p.tok.OnChunk(chunk); err != nil {\n\t\tp.err = err\n\t\treturn err\n\t}\n")
	fmt.Fprintf(b, "\treturn nil\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// Complete signals end of input. It fails if the input ended mid-token\n")
	fmt.Fprintf(b, "// or with a map or array still open. Required fields are checked at\n")
	fmt.Fprintf(b, "// each message's end_map, not here.\n")
	fmt.Fprintf(b, "func (p *%s) Complete() error {\n", parserName)
	fmt.Fprintf(b, "\tif p.err != nil {\n\t\treturn p.err\n\t}\n")
	fmt.Fprintf(b, "\tif err := p.tok.Complete(); err != nil {\n\t\tp.err = err\n\t\treturn err\n\t}\n")
	fmt.Fprintf(b, "\treturn nil\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// GetError returns the first error the parser encountered, if any.\n")
	fmt.Fprintf(b, "func (p *%s) GetError() error { return p.err }\n\n", parserName)

	fmt.Fprintf(b, "func (p *%s) fail(err error) error {\n", parserName)
	fmt.Fprintf(b, "\tif p.err == nil {\n\t\tp.err = err\n\t}\n")
	fmt.Fprintf(b, "\treturn err\n")
	fmt.Fprintf(b, "}\n\n")
}

func exportedField(n *graph.Node) string { return gonames.Exported(n.Name) }
