package common

import (
	"fmt"
	"sort"
)

// CloneValue returns a deep copy of a decoded YAML/JSON value.
// Maps and slices are copied recursively; scalars are returned as-is.
// yaml.v3 decodes maps with non-string keys as map[any]any; those come back
// as map[string]any with the keys formatted by fmt.Sprint.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case map[any]any:
		return CloneMap(stringKeys(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = CloneValue(t[i])
		}

		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// CloneMap deep-copies an option map. A nil map yields an empty, non-nil map.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}

	return out
}

// MergeMaps overlays src onto dst in place. Nested maps merge recursively,
// any other value in src replaces the one in dst. Values taken from src are copied.
func MergeMaps(dst, src map[string]any) {
	for k, sv := range src {
		if am, ok := sv.(map[any]any); ok {
			sv = stringKeys(am)
		}

		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := dst[k].(map[string]any)

		if srcIsMap && dstIsMap {
			MergeMaps(dm, sm)
			continue
		}

		dst[k] = CloneValue(sv)
	}
}

// stringKeys re-keys a map by the printed form of its keys. Values are not copied.
func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}

	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
