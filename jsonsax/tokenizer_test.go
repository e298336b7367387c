package jsonsax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weliveindetail/protog/jsonsax"
)

type event struct {
	kind string
	val  any
}

func recording() (jsonsax.Callbacks, *[]event) {
	events := &[]event{}
	rec := func(kind string, val any) error {
		*events = append(*events, event{kind: kind, val: val})
		return nil
	}
	return jsonsax.Callbacks{
		OnNull:       func() error { return rec("null", nil) },
		OnBool:       func(v bool) error { return rec("bool", v) },
		OnInteger:    func(v int64) error { return rec("integer", v) },
		OnDouble:     func(v float64) error { return rec("double", v) },
		OnString:     func(v string) error { return rec("string", v) },
		OnStartMap:   func() error { return rec("start_map", nil) },
		OnMapKey:     func(k string) error { return rec("map_key", k) },
		OnEndMap:     func() error { return rec("end_map", nil) },
		OnStartArray: func() error { return rec("start_array", nil) },
		OnEndArray:   func() error { return rec("end_array", nil) },
	}, events
}

func runChunked(t *testing.T, input string, chunkSizes ...int) []event {
	t.Helper()
	cb, events := recording()
	tok := jsonsax.New(cb)

	data := []byte(input)
	if len(chunkSizes) == 0 {
		require.NoError(t, tok.OnChunk(data))
	} else {
		pos := 0
		for _, n := range chunkSizes {
			end := pos + n
			if end > len(data) {
				end = len(data)
			}
			require.NoError(t, tok.OnChunk(data[pos:end]))
			pos = end
		}
		if pos < len(data) {
			require.NoError(t, tok.OnChunk(data[pos:]))
		}
	}
	require.NoError(t, tok.Complete())
	return *events
}

func TestTokenizerScalarEvents(t *testing.T) {
	t.Parallel()

	events := runChunked(t, `{"a":1,"b":2.5,"c":"x","d":true,"e":null}`)
	require.Len(t, events, 14)
	assert.Equal(t, "start_map", events[0].kind)
	assert.Equal(t, "map_key", events[1].kind)
	assert.Equal(t, "a", events[1].val)
	assert.Equal(t, "integer", events[2].kind)
	assert.Equal(t, int64(1), events[2].val)
	assert.Equal(t, "double", events[4].kind)
	assert.Equal(t, 2.5, events[4].val)
	assert.Equal(t, "end_map", events[13].kind)
}

func TestTokenizerArrayEvents(t *testing.T) {
	t.Parallel()

	events := runChunked(t, `[1,2,3]`)
	require.Len(t, events, 5)
	assert.Equal(t, "start_array", events[0].kind)
	assert.Equal(t, "end_array", events[4].kind)
}

func TestTokenizerChunkBoundaryInvariant(t *testing.T) {
	t.Parallel()

	input := `{"name":"hello world","nums":[1,2,3],"nested":{"x":true}}`
	whole := runChunked(t, input)

	for _, size := range []int{1, 2, 3, 5, 7, 11} {
		var sizes []int
		for i := 0; i < len(input); i += size {
			sizes = append(sizes, size)
		}
		chunked := runChunked(t, input, sizes...)
		assert.Equal(t, whole, chunked, "chunk size %d produced a different event sequence", size)
	}
}

func TestTokenizerTruncatedInput(t *testing.T) {
	t.Parallel()

	cb, _ := recording()
	tok := jsonsax.New(cb)
	require.NoError(t, tok.OnChunk([]byte(`{"a":1`)))
	err := tok.Complete()
	require.Error(t, err)
	var truncated *jsonsax.TruncatedInputError
	require.ErrorAs(t, err, &truncated)
}
