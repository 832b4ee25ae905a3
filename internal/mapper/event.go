package mapper

import (
	"github.com/evermind-zz/V4ToCdpDebugger/internal/bridge"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/dynval"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

// SyncCaller is the subset of *bridge.Bridge the event mapper needs to
// issue the synchronous sub-requests InlineEvalFinished sometimes
// requires (the auto-resume, or the stack-trace back-fill).
type SyncCaller interface {
	SyncCall(cmd v4proto.Command) bridge.Delivery
}

// MapEvent converts a single backend event into its CDP notification, per
// the table in SPEC_FULL.md §4.E / spec.md §4.E, grounded on
// V4CdpMapper::mapV4ToCdpEvent. ok is false when the event is either
// unmapped (dropped, warning logged by the caller) or suppressed by the
// auto-reply policy — in neither case is there anything to broadcast.
func MapEvent(ev v4proto.Event, sync SyncCaller) (cdp.Event, bool) {
	attrs := ev.Event.Attributes

	switch ev.Event.Type {
	case v4proto.Interrupted:
		return pausedEvent("interrupted", nil), true

	case v4proto.Breakpoint:
		id := dynval.GetString(attrs, "breakPointId")
		return pausedEvent("other", map[string]any{"hitBreakpoints": []any{id}}), true

	case v4proto.SteppingFinished:
		return pausedEvent("step", nil), true

	case v4proto.LocationReached:
		return pausedEvent("location", nil), true

	case v4proto.DebuggerInvocationRequest:
		return pausedEvent("debuggerStatement DebuggerInvocationRequest", nil), true

	case v4proto.InlineEvalFinished:
		return mapInlineEvalFinished(attrs, sync)

	case v4proto.Exception:
		return cdp.Event{
			Method: "Runtime.exceptionThrown",
			Params: map[string]any{
				"exceptionDetails": map[string]any{
					"text":      attrs["message"],
					"exception": attrs["value"],
				},
			},
		}, true

	case v4proto.Trace:
		return cdp.Event{
			Method: "Console.messageAdded",
			Params: map[string]any{
				"message": map[string]any{
					"text":  attrs["message"],
					"level": attrs["level"],
				},
			},
		}, true

	default:
		return cdp.Event{}, false
	}
}

func pausedEvent(reason string, extra map[string]any) cdp.Event {
	params := map[string]any{"reason": reason, "callFrames": []any{}}
	for k, v := range extra {
		params[k] = v
	}
	return cdp.Event{Method: "Debugger.paused", Params: params}
}

// mapInlineEvalFinished implements the auto-reply policy: an inline eval
// that finished with the literal value "undefined" almost always means no
// human client is attached to observe the transient pause, so the adapter
// resumes the backend itself and never surfaces the event. Otherwise, it
// back-fills callFrames from a synchronous stack-trace fetch rather than
// emitting the empty list the source discards the trace response into.
func mapInlineEvalFinished(attrs map[string]any, sync SyncCaller) (cdp.Event, bool) {
	if dynval.GetString(attrs, "message") == "undefined" {
		sync.SyncCall(v4proto.NewCommand(0, v4proto.Resume, nil))
		return cdp.Event{}, false
	}

	frames := []map[string]any{}
	d := sync.SyncCall(v4proto.NewCommand(0, v4proto.GetBacktrace, nil))
	if d.Response != nil {
		frames = mapBacktraceFrames(d.Response.Result)
	}
	callFrames := make([]any, len(frames))
	for i, f := range frames {
		callFrames[i] = f
	}
	return cdp.Event{
		Method: "Debugger.paused",
		Params: map[string]any{
			"reason":     "debuggerStatement DebuggerInvocationRequest",
			"callFrames": callFrames,
		},
	}, true
}
