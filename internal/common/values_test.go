package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMapIsDeep(t *testing.T) {
	src := map[string]any{
		"sourceMap": true,
		"postcssOptions": map[string]any{
			"plugins": []any{"autoprefixer", "css-mqpacker"},
		},
	}

	cp := CloneMap(src)
	require.Equal(t, src, cp)

	cp["postcssOptions"].(map[string]any)["plugins"].([]any)[0] = "changed"
	cp["sourceMap"] = false

	assert.Equal(t, "autoprefixer", src["postcssOptions"].(map[string]any)["plugins"].([]any)[0])
	assert.Equal(t, true, src["sourceMap"])
}

func TestCloneMapNil(t *testing.T) {
	cp := CloneMap(nil)
	assert.NotNil(t, cp)
	assert.Empty(t, cp)
}

func TestMergeMaps(t *testing.T) {
	dst := map[string]any{
		"minify": map[string]any{"collapseWhitespace": false, "removeComments": true},
		"inject": "body",
	}
	src := map[string]any{
		"minify": map[string]any{"collapseWhitespace": true},
		"inject": "head",
		"cache":  true,
	}

	MergeMaps(dst, src)

	assert.Equal(t, map[string]any{
		"minify": map[string]any{"collapseWhitespace": true, "removeComments": true},
		"inject": "head",
		"cache":  true,
	}, dst)

	// Overlay values are copied, not aliased.
	src["minify"].(map[string]any)["collapseWhitespace"] = false
	assert.Equal(t, true, dst["minify"].(map[string]any)["collapseWhitespace"])
}

func TestFilterPreservesOrder(t *testing.T) {
	in := []int{5, 1, 4, 2, 3}
	out := Filter(in, func(v int) bool { return v%2 == 1 })

	assert.Equal(t, []int{5, 1, 3}, out)
	assert.Equal(t, []int{5, 1, 4, 2, 3}, in)
}

func TestIsInRange(t *testing.T) {
	assert.True(t, IsInRange(1, 4200, 65535))
	assert.True(t, IsInRange(1, 1, 65535))
	assert.False(t, IsInRange(1, 0, 65535))
	assert.False(t, IsInRange(1, 70000, 65535))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestCloneValueNonStringKeys(t *testing.T) {
	src := map[string]any{
		"levels": map[any]any{1: map[string]any{"minify": true}, true: "on"},
	}

	cp := CloneMap(src)

	levels, ok := cp["levels"].(map[string]any)
	require.True(t, ok, "re-keyed as map[string]any")
	assert.Equal(t, map[string]any{"minify": true}, levels["1"])
	assert.Equal(t, "on", levels["true"])

	levels["1"].(map[string]any)["minify"] = false
	assert.Equal(t, true, src["levels"].(map[any]any)[1].(map[string]any)["minify"])
}

func TestMergeMapsNonStringKeys(t *testing.T) {
	dst := map[string]any{"levels": map[string]any{"1": "a", "2": "b"}}
	src := map[string]any{"levels": map[any]any{2: "c"}}

	MergeMaps(dst, src)

	assert.Equal(t, map[string]any{"levels": map[string]any{"1": "a", "2": "c"}}, dst)
}
