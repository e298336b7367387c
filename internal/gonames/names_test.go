package gonames_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weliveindetail/protog/internal/gonames"
)

func TestExported(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"user_id":    "UserId",
		"name":       "Name",
		"HTMLTitle":  "HTMLTitle",
		"is_active":  "IsActive",
		"item":       "Item",
		"inner_list": "InnerList",
	}
	for in, want := range cases {
		assert.Equal(t, want, gonames.Exported(in), "input %q", in)
	}
}

func TestUnexported(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "userId", gonames.Unexported("user_id"))
	assert.Equal(t, "name", gonames.Unexported("name"))
	assert.Equal(t, "", gonames.Unexported(""))
}
