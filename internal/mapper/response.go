package mapper

import (
	"strings"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// MapResponse converts a backend Response into its CDP shape using orig,
// the original CDP request retrieved from the pending-request table by
// its correlator id (component D). Dispatch to the Debugger or Runtime
// domain mapper is by the method's own dotted prefix: since CDP methods
// are already namespaced ("Debugger.foo", "Runtime.bar"), no separate
// module tag needs to survive the round trip through the pending table.
func MapResponse(orig cdp.Request, resp v4proto.Response) cdp.Response {
	switch {
	case strings.HasPrefix(orig.Method, "Debugger."):
		return mapDebuggerResponse(orig, resp)
	case strings.HasPrefix(orig.Method, "Runtime."):
		return mapRuntimeResponse(orig, resp)
	default:
		return cdp.Response{ID: orig.ID, Result: resp.Result}
	}
}

// UnmatchedResponse builds the generic fallback wrapper for a backend
// response whose correlator id was absent from the pending table
// (spec.md §7: "Backend response with unknown id").
func UnmatchedResponse(resp v4proto.Response) cdp.Response {
	return cdp.Response{ID: resp.ID, Result: resp.Result}
}
