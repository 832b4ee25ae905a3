package mapper

import (
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// mapRuntimeRequest translates CDP Runtime.* requests into backend
// commands, per the table in SPEC_FULL.md §4.C / spec.md §4.C, grounded
// on V4CdpMapper::mapCdpToV4Request_runtime.
func mapRuntimeRequest(req cdp.Request) (Translated, bool) {
	params := paramsOf(req)

	switch req.Method {
	case "Runtime.evaluate":
		attrs := map[string]any{
			"program":      paramString(params, "expression"),
			"contextIndex": paramInt(params, "contextId"),
		}
		return Translated{
			Orig:    req,
			Module:  ModuleRuntime,
			Command: v4proto.NewCommand(req.ID, v4proto.Evaluate, attrs),
		}, true

	case "Runtime.getProperties":
		attrs := map[string]any{"iteratorId": params["objectId"]}
		return Translated{
			Orig:    req,
			Module:  ModuleRuntime,
			Command: v4proto.NewCommand(req.ID, v4proto.GetPropertiesByIterator, attrs),
		}, true

	case "Runtime.callFunctionOn":
		attrs := map[string]any{
			"objectId":            params["objectId"],
			"functionDeclaration": paramString(params, "functionDeclaration"),
		}
		return Translated{
			Orig:    req,
			Module:  ModuleRuntime,
			Command: v4proto.NewCommand(req.ID, v4proto.ScriptValueToString, attrs),
		}, true

	case "Runtime.addBinding",
		"Runtime.removeBinding",
		"Runtime.releaseObject",
		"Runtime.releaseObjectGroup",
		"Runtime.getHeapUsage",
		"Runtime.awaitPromise":
		return noOpPassthrough(req, ModuleRuntime), true

	// Runtime.enable is answered locally at the transport layer before
	// ever reaching the mapper (spec.md S5); it has no case here.

	default:
		return Translated{}, false
	}
}
