package mapper

import (
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// mapRuntimeResponse converts a backend Response into its CDP shape for a
// Runtime-domain request, per spec.md §4.D.
func mapRuntimeResponse(orig cdp.Request, resp v4proto.Response) cdp.Response {
	switch orig.Method {
	case "Runtime.evaluate":
		return cdp.Response{ID: orig.ID, Result: map[string]any{
			"result": map[string]any{"type": "string", "value": resp.Result},
		}}

	case "Runtime.getProperties":
		list, _ := resp.Result.([]any)
		if list == nil {
			list = []any{}
		}
		return cdp.Response{ID: orig.ID, Result: map[string]any{"result": list}}

	case "Runtime.addBinding",
		"Runtime.removeBinding",
		"Runtime.releaseObject",
		"Runtime.releaseObjectGroup",
		"Runtime.getHeapUsage",
		"Runtime.awaitPromise":
		return cdp.Response{ID: orig.ID, Result: map[string]any{}}

	default:
		return cdp.Response{ID: orig.ID, Result: resp.Result}
	}
}
