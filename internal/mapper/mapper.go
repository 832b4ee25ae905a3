// Package mapper implements the bidirectional CDP<->V4 translation:
// request mapping (CDP->backend, components C), response mapping
// (backend->CDP, component D) and event mapping (backend->CDP,
// component E).
//
// The original implementation tags a handled request with a
// "_mapper_metadata" string key stashed into its own request map so the
// response mapper can later recover which domain handled it. Per
// SPEC_FULL.md §9 DESIGN NOTES this is replaced with a typed Translated
// value carrying the original CDP request, the backend command, and the
// domain tag together — there is no need for a sum-type workaround in Go.
package mapper

import (
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// Module names the domain mapper that handled a request. The response
// mapper does not read it: MapResponse dispatches on the method's own
// "Debugger." / "Runtime." prefix.
type Module string

const (
	ModuleDebugger Module = "Debugger"
	ModuleRuntime  Module = "Runtime"
)

// Translated is the result of mapping a single CDP request to its V4
// backend equivalent.
type Translated struct {
	// Orig is the original CDP request, retained so the response mapper
	// can switch on its Method once the backend replies.
	Orig cdp.Request
	// Command is the backend command to forward, valid unless
	// Passthrough is true.
	Command v4proto.Command
	// Module identifies which domain mapper produced this translation.
	Module Module
	// Passthrough marks a CDP method answered locally without ever
	// reaching the backend (the CDP "setup" methods V4 has no concept
	// of: setPauseOnExceptions, addBinding, releaseObject, etc).
	Passthrough bool
}

// domainMapper is the signature shared by each domain's CDP->backend
// translator: inspect req.Method and either return a Translated result
// (ok == true) or report "not mine" (ok == false).
type domainMapper func(req cdp.Request) (Translated, bool)

// domainOrder is the fixed dispatch order from spec.md §4.C: Debugger is
// tried before Runtime, and the first non-empty result wins.
var domainOrder = []domainMapper{
	mapDebuggerRequest,
	mapRuntimeRequest,
}

// MapRequest translates a CDP request into its backend equivalent,
// trying each domain mapper in order. ok is false if no domain mapper
// recognizes req.Method; callers must then send cdp.MethodNotFound.
func MapRequest(req cdp.Request) (Translated, bool) {
	for _, dm := range domainOrder {
		if t, ok := dm(req); ok {
			return t, true
		}
	}
	return Translated{}, false
}

// noOpPassthrough builds a Translated value for a CDP method that V4 has
// no backend equivalent for: the adapter answers with an empty result
// without ever contacting the backend.
func noOpPassthrough(req cdp.Request, mod Module) Translated {
	return Translated{
		Orig:        req,
		Module:      mod,
		Passthrough: true,
		Command:     v4proto.NewCommand(req.ID, v4proto.NoOp, nil),
	}
}

func paramsOf(req cdp.Request) map[string]any {
	if req.Params == nil {
		return map[string]any{}
	}
	return req.Params
}

func paramString(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func paramInt(params map[string]any, key string) int {
	switch n := params[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
