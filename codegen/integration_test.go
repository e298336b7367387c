package codegen_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/weliveindetail/protog/codegen"
	"github.com/weliveindetail/protog/graph"
	"github.com/weliveindetail/protog/internal/descbuild"
	"github.com/weliveindetail/protog/internal/idl"
)

// moduleRoot locates the repository root from this test file's own path,
// so the generated temp module's replace directive works regardless of
// where the repository is checked out.
func moduleRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Dir(filepath.Dir(thisFile))
}

const integrationTargetSrc = `package target

type Point struct {
	X int32 ` + "`json:\"x\"`" + `
	Y int32 ` + "`json:\"y\"`" + `
}

type Outer struct {
	Name string ` + "`json:\"name\"`" + `
	P    *Point ` + "`json:\"p\"`" + `
}
`

// TestGeneratedParserRunsAgainstRealJSON builds an Outer-over-Point parser
// the way protog itself would (schema -> graph -> codegen.Emit), drops it
// into a temp module alongside a hand-written protoc-gen-go-shaped target
// package, and runs it with "go run" against spec.md's S2 scenario:
// Outer{name="o", p=Point{x:1,y:2}}.
func TestGeneratedParserRunsAgainstRealJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("shells out to the go toolchain against a temp module")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available in PATH")
	}

	doc, err := idl.ParseString("test.idl", `
		message Point {
			int32 x = 1;
			int32 y = 2;
		}
		message Outer {
			string name = 1;
			Point p = 2;
		}
	`)
	require.NoError(t, err)

	fd, err := descbuild.Build(doc)
	require.NoError(t, err)

	md := fd.Messages().ByName(protoreflect.Name("Outer"))
	require.NotNil(t, md)

	g, err := graph.Build(md, nil)
	require.NoError(t, err)

	src, err := codegen.Emit(md, g, codegen.Options{
		OutputPackage:    "genparser",
		TargetImportPath: "protogintegration/target",
		TargetAlias:      "target",
	})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "target"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "genparser"), 0o755))

	gomod := "module protogintegration\n\n" +
		"go 1.21\n\n" +
		"require github.com/weliveindetail/protog v0.0.0-00010101000000-000000000000\n\n" +
		"replace github.com/weliveindetail/protog => " + moduleRoot(t) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target", "point.go"), []byte(integrationTargetSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "genparser", "outer_json_parser.go"), src, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(integrationMainSrc), 0o644))

	cmd := exec.Command("go", "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOFLAGS=-mod=mod", "GOSUMDB=off")
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "go run failed:\n%s", out)

	var got struct {
		Name string `json:"name"`
		P    struct {
			X int32 `json:"x"`
			Y int32 `json:"y"`
		} `json:"p"`
	}
	require.NoErrorf(t, json.Unmarshal(out, &got), "output was not JSON:\n%s", out)

	require.Equal(t, "o", got.Name)
	require.Equal(t, int32(1), got.P.X)
	require.Equal(t, int32(2), got.P.Y)
}

const integrationMainSrc = `package main

import (
	"encoding/json"
	"fmt"
	"os"

	"protogintegration/genparser"
	"protogintegration/target"
)

func main() {
	var msg target.Outer
	p := genparser.NewOuterParser()
	p.Init(&msg)

	input := []byte(` + "`" + `{"name":"o","p":{"x":1,"y":2}}` + "`" + `)
	mid := len(input) / 2
	if err := p.OnChunk(input[:mid]); err != nil {
		fmt.Fprintln(os.Stderr, "chunk1:", err)
		os.Exit(1)
	}
	if err := p.OnChunk(input[mid:]); err != nil {
		fmt.Fprintln(os.Stderr, "chunk2:", err)
		os.Exit(1)
	}
	if err := p.Complete(); err != nil {
		fmt.Fprintln(os.Stderr, "complete:", err)
		os.Exit(1)
	}

	out, err := json.Marshal(msg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
`
