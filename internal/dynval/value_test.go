package dynval

import "testing"

func TestGetNested(t *testing.T) {
	m := map[string]any{
		"Event": map[string]any{
			"type": "Breakpoint",
			"attributes": map[string]any{
				"breakPointId": "1",
			},
		},
	}

	if got := GetString(m, "Event", "type"); got != "Breakpoint" {
		t.Fatalf("GetString(type) = %q, want Breakpoint", got)
	}
	if got := GetString(m, "Event", "attributes", "breakPointId"); got != "1" {
		t.Fatalf("GetString(breakPointId) = %q, want 1", got)
	}
}

func TestGetMissingReturnsDefault(t *testing.T) {
	m := map[string]any{"a": map[string]any{"b": 1}}

	if got := Get(m, []string{"a", "missing"}, "fallback"); got != "fallback" {
		t.Fatalf("Get(missing) = %v, want fallback", got)
	}
	if got := Get(m, []string{"a", "b", "c"}, "fallback"); got != "fallback" {
		t.Fatalf("descending into a non-map leaf should return default, got %v", got)
	}
}

func TestGetIntAcceptsFloat64(t *testing.T) {
	m := map[string]any{"Result": map[string]any{"id": float64(42)}}
	n, ok := GetInt(m, "Result", "id")
	if !ok || n != 42 {
		t.Fatalf("GetInt = (%v, %v), want (42, true)", n, ok)
	}
}

func TestGetIntMissing(t *testing.T) {
	m := map[string]any{}
	_, ok := GetInt(m, "missing")
	if ok {
		t.Fatalf("expected ok=false for missing key")
	}
}
