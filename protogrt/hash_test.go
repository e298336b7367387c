package protogrt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weliveindetail/protog/protogrt"
)

func TestKeyHashIsDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, protogrt.KeyHash("field_name"), protogrt.KeyHash("field_name"))
}

func TestKeyHashDiffersAcrossKeys(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, protogrt.KeyHash("a"), protogrt.KeyHash("b"))
	assert.NotEqual(t, protogrt.KeyHash("name"), protogrt.KeyHash("Name"))
}

func TestKeyHashEmptyString(t *testing.T) {
	t.Parallel()

	const offset64 = 14695981039346656037
	assert.Equal(t, uint64(offset64), protogrt.KeyHash(""))
}
