package mapper

import (
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// mapDebuggerRequest translates CDP Debugger.* requests into backend
// commands, per the table in SPEC_FULL.md §4.C / spec.md §4.C, grounded
// on V4CdpMapper::mapCdpToV4Request_debugger.
func mapDebuggerRequest(req cdp.Request) (Translated, bool) {
	params := paramsOf(req)

	switch req.Method {
	case "Debugger.enable":
		return translated(req, v4proto.Attach, nil), true
	case "Debugger.disable":
		return translated(req, v4proto.Detach, nil), true
	case "Debugger.pause":
		return translated(req, v4proto.Interrupt, nil), true
	case "Debugger.resume":
		return translated(req, v4proto.Continue, nil), true
	case "Debugger.stepInto":
		return translated(req, v4proto.StepInto, nil), true
	case "Debugger.stepOver":
		return translated(req, v4proto.StepOver, nil), true
	case "Debugger.stepOut":
		return translated(req, v4proto.StepOut, nil), true

	case "Debugger.setBreakpointByUrl":
		attrs := map[string]any{
			"breakpointData": map[string]any{
				"fileName":   cdp.NormalizeScriptURL(paramString(params, "url")),
				"lineNumber": paramInt(params, "lineNumber"),
				"condition":  paramString(params, "condition"),
				"enabled":    true,
			},
		}
		return translated(req, v4proto.SetBreakpoint, attrs), true

	case "Debugger.removeBreakpoint":
		attrs := map[string]any{"breakpointId": params["breakpointId"]}
		return translated(req, v4proto.DeleteBreakpoint, attrs), true

	case "Debugger.getPossibleBreakpoints":
		return translated(req, v4proto.GetBreakpoints, nil), true

	case "Debugger.getScriptSource":
		attrs := map[string]any{"scriptId": params["scriptId"]}
		return translated(req, v4proto.GetScriptData, attrs), true

	case "Debugger.getStackTrace":
		return translated(req, v4proto.GetBacktrace, nil), true

	case "Debugger.setPauseOnExceptions",
		"Debugger.setAsyncCallStackDepth",
		"Debugger.setBlackboxPatterns":
		return noOpPassthrough(req, ModuleDebugger), true

	case "Debugger.evaluateOnCallFrame":
		return mapEvaluateOnCallFrame(req, params), true

	default:
		return Translated{}, false
	}
}

func translated(req cdp.Request, typ v4proto.CommandType, attrs map[string]any) Translated {
	return Translated{
		Orig:    req,
		Module:  ModuleDebugger,
		Command: v4proto.NewCommand(req.ID, typ, attrs),
	}
}

// mapEvaluateOnCallFrame special-cases the literal expression "this":
// V4 answers that with GetThisObject rather than a general Evaluate.
func mapEvaluateOnCallFrame(req cdp.Request, params map[string]any) Translated {
	expr := paramString(params, "expression")
	if expr == "this" {
		attrs := map[string]any{"contextIndex": params["callFrameId"]}
		return Translated{
			Orig:    req,
			Module:  ModuleDebugger,
			Command: v4proto.NewCommand(req.ID, v4proto.GetThisObject, attrs),
		}
	}
	attrs := map[string]any{
		"program":      expr,
		"contextIndex": params["callFrameId"],
	}
	return Translated{
		Orig:    req,
		Module:  ModuleDebugger,
		Command: v4proto.NewCommand(req.ID, v4proto.Evaluate, attrs),
	}
}
