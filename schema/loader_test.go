package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weliveindetail/protog/schema"
)

func writeSchema(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.idl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoaderLoadSucceeds(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		message M {
			string name = 1;
		}
	`)

	fd, md, err := (&schema.Loader{}).Load(path, "M")
	require.NoError(t, err)
	assert.Equal(t, "M", string(md.Name()))
	assert.Equal(t, md, fd.Messages().Get(0))
}

func TestLoaderOpenErrorOnMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := (&schema.Loader{}).Load(filepath.Join(t.TempDir(), "nope.idl"), "M")
	require.Error(t, err)
	var openErr *schema.SchemaOpenError
	require.ErrorAs(t, err, &openErr)
	assert.NotNil(t, openErr.Unwrap())
}

func TestLoaderParseErrorOnMalformedSyntax(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		message M {
			string name = 1
		}
	`) // missing trailing semicolon

	_, _, err := (&schema.Loader{}).Load(path, "M")
	require.Error(t, err)
	var parseErr *schema.SchemaParseError
	require.ErrorAs(t, err, &parseErr)
	assert.NotNil(t, parseErr.Unwrap())
}

func TestLoaderBuildErrorOnUnknownFieldType(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		message M {
			Nonexistent thing = 1;
		}
	`)

	_, _, err := (&schema.Loader{}).Load(path, "M")
	require.Error(t, err)
	var buildErr *schema.SchemaBuildError
	require.ErrorAs(t, err, &buildErr)
	assert.NotNil(t, buildErr.Unwrap())
}

func TestLoaderMessageNotFoundError(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		message M {
			string name = 1;
		}
	`)

	_, _, err := (&schema.Loader{}).Load(path, "DoesNotExist")
	require.Error(t, err)
	var notFound *schema.MessageNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "DoesNotExist", notFound.Name)
}

func TestLoaderResolvesNestedMessageName(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		package p;
		message Outer {
			message Inner {
				string text = 1;
			}
			Inner inner = 1;
		}
	`)

	_, md, err := (&schema.Loader{}).Load(path, "p.Outer.Inner")
	require.NoError(t, err)
	assert.Equal(t, "Inner", string(md.Name()))
}
