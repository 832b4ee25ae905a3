// Package dynval provides safe navigation of the dynamic, loosely typed
// key/value trees that both CDP and the V4 backend vocabulary use on the
// wire (decoded JSON: map[string]any, []any, and scalar leaves).
package dynval

// Get descends into m following path, returning def if at any step the
// current value is not a map[string]any or lacks the next key.
func Get(m map[string]any, path []string, def any) any {
	var cur any = m
	for _, key := range path {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		v, ok := asMap[key]
		if !ok {
			return def
		}
		cur = v
	}
	return cur
}

// GetMap is Get specialized for the common case of expecting a nested map.
func GetMap(m map[string]any, path ...string) map[string]any {
	v := Get(m, path, nil)
	asMap, _ := v.(map[string]any)
	return asMap
}

// GetString is Get specialized for a nested string leaf.
func GetString(m map[string]any, path ...string) string {
	v := Get(m, path, "")
	s, _ := v.(string)
	return s
}

// GetInt is Get specialized for a nested integer leaf. Backend and CDP
// payloads decode JSON numbers as float64, so both forms are accepted.
func GetInt(m map[string]any, path ...string) (int, bool) {
	v := Get(m, path, nil)
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// GetSlice is Get specialized for a nested sequence leaf.
func GetSlice(m map[string]any, path ...string) []any {
	v := Get(m, path, nil)
	s, _ := v.([]any)
	return s
}
