package v4engine

import (
	"testing"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

func testScripts() []Script {
	return []Script{
		{ID: 2, FileName: "test.js", Contents: "function f() {\n  return 1;\n}\n"},
	}
}

func TestSetBreakpointOnKnownScript(t *testing.T) {
	e := New(testScripts(), 0)
	d := e.Handle(v4proto.NewCommand(1, v4proto.SetBreakpoint, map[string]any{
		"breakpointData": map[string]any{"fileName": "test.js", "lineNumber": 2, "condition": "", "enabled": true},
	}))
	if d.Response == nil {
		t.Fatal("expected a response")
	}
	m, ok := d.Response.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected a {result: id} map, got %T", d.Response.Result)
	}
	if _, ok := m["result"].(int); !ok {
		t.Fatalf("expected an integer breakpoint id under \"result\", got %T", m["result"])
	}
}

func TestSetBreakpointOnUnknownScript(t *testing.T) {
	e := New(testScripts(), 0)
	d := e.Handle(v4proto.NewCommand(1, v4proto.SetBreakpoint, map[string]any{
		"breakpointData": map[string]any{"fileName": "missing.js"},
	}))
	m, _ := d.Response.Result.(map[string]any)
	if m["result"] != "no-script" {
		t.Fatalf("expected no-script sentinel, got %v", d.Response.Result)
	}
}

func TestSetThenRemoveBreakpointLeavesNoState(t *testing.T) {
	e := New(testScripts(), 0)
	set := e.Handle(v4proto.NewCommand(1, v4proto.SetBreakpoint, map[string]any{
		"breakpointData": map[string]any{"fileName": "test.js", "lineNumber": 2},
	}))
	id := set.Response.Result.(map[string]any)["result"].(int)

	e.Handle(v4proto.NewCommand(2, v4proto.DeleteBreakpoint, map[string]any{"breakpointId": id}))

	got := e.Handle(v4proto.NewCommand(3, v4proto.GetBreakpoints, nil))
	list, _ := got.Response.Result.([]any)
	if len(list) != 0 {
		t.Fatalf("expected no remaining breakpoints, got %v", list)
	}
}

func TestGetScriptDataPopulatesCache(t *testing.T) {
	e := New(testScripts(), 0)
	d := e.Handle(v4proto.NewCommand(1, v4proto.GetScriptData, map[string]any{"scriptId": 2}))
	outer, _ := d.Response.Result.(map[string]any)
	inner, _ := outer["result"].(map[string]any)
	if inner["contents"] != "function f() {\n  return 1;\n}\n" {
		t.Fatalf("unexpected contents %v", inner["contents"])
	}
	if _, ok := e.descCache.Get(2); !ok {
		t.Fatal("expected script 2 to be cached after first fetch")
	}
}

func TestScriptsCheckpointPurgesCache(t *testing.T) {
	e := New(testScripts(), 0)
	e.Handle(v4proto.NewCommand(1, v4proto.GetScriptData, map[string]any{"scriptId": 2}))
	e.Handle(v4proto.NewCommand(2, v4proto.ScriptsCheckpoint, nil))
	if e.descCache.Len() != 0 {
		t.Fatalf("expected cache purged after ScriptsCheckpoint, got len %d", e.descCache.Len())
	}
}

func TestPullEventDrainsQueueInOrder(t *testing.T) {
	e := New(nil, 0)
	e.PushEvent(v4proto.Event{Event: v4proto.EventBody{Type: v4proto.Breakpoint}})
	e.PushEvent(v4proto.Event{Event: v4proto.EventBody{Type: v4proto.SteppingFinished}})

	d1 := e.Handle(v4proto.NewCommand(0, v4proto.PullEvent, nil))
	d2 := e.Handle(v4proto.NewCommand(0, v4proto.PullEvent, nil))

	if d1.Event == nil || d1.Event.Event.Type != v4proto.Breakpoint {
		t.Fatalf("expected Breakpoint event first, got %+v", d1)
	}
	if d2.Event == nil || d2.Event.Event.Type != v4proto.SteppingFinished {
		t.Fatalf("expected SteppingFinished event second, got %+v", d2)
	}
}

func TestEvaluateUndefinedExpression(t *testing.T) {
	e := New(testScripts(), 0)
	d := e.Handle(v4proto.NewCommand(1, v4proto.Evaluate, map[string]any{"program": "  "}))
	if d.Response.Result != "undefined" {
		t.Fatalf("expected undefined for blank expression, got %v", d.Response.Result)
	}
}
