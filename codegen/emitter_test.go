package codegen_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/weliveindetail/protog/codegen"
	"github.com/weliveindetail/protog/graph"
	"github.com/weliveindetail/protog/internal/descbuild"
	"github.com/weliveindetail/protog/internal/idl"
)

func buildGraph(t *testing.T, src, msgName string) (protoreflect.MessageDescriptor, *graph.Graph) {
	t.Helper()
	doc, err := idl.ParseString("test.idl", src)
	require.NoError(t, err)

	fd, err := descbuild.Build(doc)
	require.NoError(t, err)

	md := fd.Messages().ByName(protoreflect.Name(msgName))
	require.NotNil(t, md)

	g, err := graph.Build(md, nil)
	require.NoError(t, err)
	return md, g
}

func diff(t *testing.T, want, got string) string {
	t.Helper()
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	require.NoError(t, err)
	return d
}

func TestEmitIsDeterministic(t *testing.T) {
	t.Parallel()

	md, g := buildGraph(t, `
		message Inner {
			string text = 1;
		}
		message Outer {
			bool flag = 1;
			int32 count = 2;
			optional string label = 3;
			repeated int32 values = 4;
			Inner inner = 5;
			repeated Inner items = 6;
		}
	`, "Outer")

	opts := codegen.Options{
		OutputPackage:    "genpkg",
		TargetImportPath: "example.com/target",
		TargetAlias:      "target",
	}

	first, err := codegen.Emit(md, g, opts)
	require.NoError(t, err)

	second, err := codegen.Emit(md, g, opts)
	require.NoError(t, err)

	if string(first) != string(second) {
		t.Fatalf("Emit is not deterministic:\n%s", diff(t, string(first), string(second)))
	}
}

func TestEmitContainsExpectedDispatchSurface(t *testing.T) {
	t.Parallel()

	md, g := buildGraph(t, `
		message Outer {
			bool flag = 1;
			int32 count = 2;
			optional string label = 3;
			repeated int32 values = 4;
		}
	`, "Outer")

	src, err := codegen.Emit(md, g, codegen.Options{
		OutputPackage:    "genpkg",
		TargetImportPath: "example.com/target",
		TargetAlias:      "target",
	})
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "package genpkg")
	assert.Contains(t, out, `target "example.com/target"`)
	assert.Contains(t, out, "type OuterParser struct")
	assert.Contains(t, out, "func (p *OuterParser) onBool(v bool) error")
	assert.Contains(t, out, "func (p *OuterParser) onInteger(v int64) error")
	assert.Contains(t, out, "func (p *OuterParser) onStartArray() error")
	assert.Contains(t, out, "func (p *OuterParser) onMapKey(key string) error")
	assert.Contains(t, out, "protogrt.KeyHash(key)")
	assert.Contains(t, out, "m.Flag = v")
	assert.Contains(t, out, "vv := v")
	assert.Contains(t, out, "m.Values = append(m.Values, int32(v))")
}

func TestEmitHandlesRootObjectStartMap(t *testing.T) {
	t.Parallel()

	md, g := buildGraph(t, `
		message M {
			string name = 1;
		}
	`, "M")

	src, err := codegen.Emit(md, g, codegen.Options{
		OutputPackage:    "genpkg",
		TargetImportPath: "example.com/target",
		TargetAlias:      "target",
	})
	require.NoError(t, err)
	out := string(src)

	// The document's own opening brace arrives as an onStartMap call too,
	// against a frame Init did not push (there is no field that selects
	// the root). Without this case, every generated parser would fail on
	// its first token: see TestGeneratedParserRunsAgainstRealJSON.
	assert.Contains(t, out, "p.root = msg")
	assert.Contains(t, out, "p.stack.Len() == 0")
	assert.Contains(t, out, "Target: p.root")
}

func TestEmitAcceptsDistinctKeyHashes(t *testing.T) {
	t.Parallel()

	// These field names do not collide under FNV-1a64, so Emit succeeds
	// without a KeyHashCollisionError. The collision path itself lives in
	// the unexported buildKeyTable and is not exercised here.
	md, g := buildGraph(t, `
		message M {
			string a = 1;
			string b = 2;
			string c = 3;
		}
	`, "M")

	_, err := codegen.Emit(md, g, codegen.Options{
		OutputPackage:    "genpkg",
		TargetImportPath: "example.com/target",
	})
	require.NoError(t, err)
}
