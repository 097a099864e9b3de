package yamlutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirelens/go-sdk/internal/yamlutil"
)

func TestDump_SortsPlainMapKeys(t *testing.T) {
	doc := map[string]any{"zebra": 1, "alpha": 2, "mid": 3}
	out := yamlutil.Dump(doc)

	alpha := strings.Index(out, "alpha:")
	mid := strings.Index(out, "mid:")
	zebra := strings.Index(out, "zebra:")
	require.NotEqual(t, -1, alpha)
	assert.Less(t, alpha, mid)
	assert.Less(t, mid, zebra)
}

func TestDump_NestedStructures(t *testing.T) {
	doc := map[string]any{
		"outer": map[string]any{"b": 1, "a": 2},
		"list":  []any{"x", map[string]any{"k": "v"}},
	}
	out := yamlutil.Dump(doc)
	assert.Contains(t, out, "outer:")
	assert.Contains(t, out, "k: v")
	assert.Less(t, strings.Index(out, "a: 2"), strings.Index(out, "b: 1"))
}

func TestDump_Struct(t *testing.T) {
	type doc struct {
		First  string `yaml:"first"`
		Second int    `yaml:"second"`
	}
	out := yamlutil.Dump(doc{First: "x", Second: 2})
	assert.Equal(t, "first: x\nsecond: 2\n", out)
}

func TestOrderedMap_PreservesInsertionOrder(t *testing.T) {
	m := yamlutil.NewOrderedMap()
	m.Set("zebra", "1")
	m.Set("alpha", "2")
	m.Set("zebra", "3") // re-set keeps position

	assert.Equal(t, []string{"zebra", "alpha"}, m.Keys())
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get("zebra")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	out := yamlutil.Dump(m)
	assert.Less(t, strings.Index(out, "zebra:"), strings.Index(out, "alpha:"))
}

func TestOrderedMap_ListValues(t *testing.T) {
	m := yamlutil.NewOrderedMap()
	m.Set("set-cookie", []string{"a=1", "b=2"})
	out := yamlutil.Dump(m)
	assert.Contains(t, out, "set-cookie:")
	assert.Contains(t, out, "a=1")
	assert.Contains(t, out, "b=2")
}
