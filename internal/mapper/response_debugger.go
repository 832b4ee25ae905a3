package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/dynval"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// mapDebuggerResponse converts a backend Response into its CDP shape,
// dispatching on the original request's Method, per SPEC_FULL.md §4.D /
// spec.md §4.D, grounded on V4CdpMapper::mapV4ToCdpResponse_debugger.
func mapDebuggerResponse(orig cdp.Request, resp v4proto.Response) cdp.Response {
	switch orig.Method {
	case "Debugger.getScriptSource":
		return mapGetScriptSourceResponse(orig, resp)

	case "Debugger.setBreakpointByUrl":
		return mapSetBreakpointResponse(orig, resp)

	case "Debugger.removeBreakpoint":
		return cdp.Response{ID: orig.ID, Result: map[string]any{}}

	case "Debugger.getStackTrace":
		frames := mapBacktraceFrames(resp.Result)
		return cdp.Response{ID: orig.ID, Result: map[string]any{"callFrames": frames}}

	case "Debugger.getPossibleBreakpoints":
		return cdp.Response{ID: orig.ID, Result: map[string]any{"locations": possibleBreakpointLocations(resp.Result)}}

	case "Debugger.evaluateOnCallFrame":
		return mapEvaluateOnCallFrameResponse(orig, resp)

	case "Debugger.setPauseOnExceptions",
		"Debugger.setAsyncCallStackDepth",
		"Debugger.setBlackboxPatterns":
		return cdp.Response{ID: orig.ID, Result: map[string]any{}}

	default:
		return cdp.Response{ID: orig.ID, Result: resp.Result}
	}
}

func resultMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// mapGetScriptSourceResponse mirrors mapSetBreakpointResponse's "no
// script" fallback: when the backend has no script matching the
// requested id, Result.result is absent rather than the expected
// {contents} map.
func mapGetScriptSourceResponse(orig cdp.Request, resp v4proto.Response) cdp.Response {
	inner := dynval.GetMap(resultMap(resp.Result), "result")
	if inner == nil {
		scriptID, _ := paramsOf(orig)["scriptId"].(string)
		return cdp.Response{ID: orig.ID, Error: &cdp.Error{
			Code:    cdp.ErrCodeServerError,
			Message: fmt.Sprintf("No script matching %s", scriptID),
		}}
	}
	return cdp.Response{ID: orig.ID, Result: map[string]any{"scriptSource": dynval.GetString(inner, "contents")}}
}

func mapSetBreakpointResponse(orig cdp.Request, resp v4proto.Response) cdp.Response {
	m := resultMap(resp.Result)
	raw := m["result"]
	switch n := raw.(type) {
	case int:
		return cdp.Response{ID: orig.ID, Result: map[string]any{"breakpointId": strconv.Itoa(n)}}
	case float64:
		return cdp.Response{ID: orig.ID, Result: map[string]any{"breakpointId": strconv.Itoa(int(n))}}
	default:
		url, _ := paramsOf(orig)["url"].(string)
		return cdp.Response{ID: orig.ID, Error: &cdp.Error{
			Code:    cdp.ErrCodeServerError,
			Message: fmt.Sprintf("No script matching %s", url),
		}}
	}
}

// mapBacktraceFrames accepts either a mapping-shaped frame or the textual
// "func at file:line" shape the backend may also return.
func mapBacktraceFrames(result any) []map[string]any {
	list, _ := result.([]any)
	frames := make([]map[string]any, 0, len(list))
	for _, item := range list {
		switch f := item.(type) {
		case map[string]any:
			line, _ := dynval.GetInt(f, "lineNumber")
			frames = append(frames, map[string]any{
				"functionName": dynval.GetString(f, "functionName"),
				"url":          dynval.GetString(f, "url"),
				"lineNumber":   line,
			})
		case string:
			frames = append(frames, parseTextualFrame(f))
		}
	}
	return frames
}

func parseTextualFrame(s string) map[string]any {
	// "func at file:line"
	name, rest, ok := strings.Cut(s, " at ")
	if !ok {
		return map[string]any{"functionName": s, "url": "", "lineNumber": 0}
	}
	url := rest
	line := 0
	if idx := strings.LastIndex(rest, ":"); idx >= 0 {
		url = rest[:idx]
		if n, err := strconv.Atoi(rest[idx+1:]); err == nil {
			line = n
		}
	}
	return map[string]any{"functionName": name, "url": url, "lineNumber": line}
}

func possibleBreakpointLocations(result any) []map[string]any {
	list, _ := result.([]any)
	locs := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, _ := item.(map[string]any)
		line, _ := dynval.GetInt(m, "lineNumber")
		locs = append(locs, map[string]any{
			"lineNumber": line,
			"scriptId":   dynval.GetString(m, "scriptId"),
		})
	}
	return locs
}

func mapEvaluateOnCallFrameResponse(orig cdp.Request, resp v4proto.Response) cdp.Response {
	m := resultMap(resp.Result)
	if dynval.GetString(m, "type") == "ObjectValue" {
		objID := m["value"]
		return cdp.Response{ID: orig.ID, Result: map[string]any{
			"result": map[string]any{"type": "object", "objectId": objID},
		}}
	}
	return cdp.Response{ID: orig.ID, Result: resp.Result}
}
