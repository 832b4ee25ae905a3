// Package v4engine provides an in-memory stand-in for the embedded
// script engine's native debugging agent ("V4"). It is not the engine
// itself — real instruction-level debugging is out of scope — but it
// implements enough of the backend command vocabulary against a small
// preloaded set of scripts and breakpoints to drive and test the
// translation layer end-to-end, playing the role delve's
// service/debugger package plays relative to the real pkg/proc target.
package v4engine

import (
	"strconv"
	"strings"
	"sync"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/bridge"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
	lru "github.com/hashicorp/golang-lru"
)

// Script is a single preloaded script source, keyed by the fileName a
// Debugger.setBreakpointByUrl request would normalize to.
type Script struct {
	ID             int
	FileName       string
	Contents       string
	BaseLineNumber int
}

type breakpoint struct {
	id        int
	fileName  string
	line      int
	condition string
	enabled   bool
}

// Engine is the fake V4 backend. It satisfies bridge.Engine, so it can be
// driven directly through a *bridge.Bridge.
type Engine struct {
	mu sync.Mutex

	scripts     map[string]*Script // by fileName
	scriptsByID map[int]*Script
	nextScript  int

	breakpoints  map[int]*breakpoint
	nextBpID     int
	contextCount int

	descCache *lru.Cache // script id -> *Script

	events      []v4proto.Event
	eventsMu    sync.Mutex
	eventSignal func(n int) // wired to (*bridge.Bridge).NotifyEventsPending
}

// New builds a fake engine preloaded with scripts. cacheSize bounds the
// script-descriptor LRU cache (component 4.N); 0 picks a small default.
func New(scripts []Script, cacheSize int) *Engine {
	if cacheSize <= 0 {
		cacheSize = 64
	}
	cache, _ := lru.New(cacheSize)

	e := &Engine{
		scripts:      make(map[string]*Script),
		scriptsByID:  make(map[int]*Script),
		breakpoints:  make(map[int]*breakpoint),
		descCache:    cache,
		contextCount: 1,
		nextBpID:     1,
	}
	for _, s := range scripts {
		cp := s
		e.scripts[s.FileName] = &cp
		e.scriptsByID[s.ID] = &cp
		if s.ID >= e.nextScript {
			e.nextScript = s.ID + 1
		}
	}
	return e
}

// BindEventSignal wires the engine's event-queue producer to the bridge's
// NotifyEventsPending, so pushing an event through PushEvent surfaces on
// the ordinary event-pump path (component H).
func (e *Engine) BindEventSignal(b *bridge.Bridge) {
	e.eventSignal = b.NotifyEventsPending
}

// PushEvent enqueues a backend event for later delivery via a PullEvent
// command, and signals the bridge that one event is now pending. Tests
// use this to simulate a breakpoint hit, a stepping completion, etc.
func (e *Engine) PushEvent(ev v4proto.Event) {
	e.eventsMu.Lock()
	e.events = append(e.events, ev)
	e.eventsMu.Unlock()
	if e.eventSignal != nil {
		e.eventSignal(1)
	}
}

func (e *Engine) popEvent() (v4proto.Event, bool) {
	e.eventsMu.Lock()
	defer e.eventsMu.Unlock()
	if len(e.events) == 0 {
		return v4proto.Event{}, false
	}
	ev := e.events[0]
	e.events = e.events[1:]
	return ev, true
}

// Handle implements bridge.Engine: dispatch a single backend command and
// return its Delivery. Only ever called from the bridge's own goroutine.
func (e *Engine) Handle(cmd v4proto.Command) bridge.Delivery {
	switch cmd.Command.Type {
	case v4proto.PullEvent:
		if ev, ok := e.popEvent(); ok {
			return bridge.Delivery{Event: &ev}
		}
		return bridge.Delivery{Response: &v4proto.Response{ID: cmd.ID, Result: nil}}

	case v4proto.Attach, v4proto.Detach, v4proto.Resume:
		return e.reply(cmd.ID, map[string]any{})

	case v4proto.Interrupt, v4proto.Continue, v4proto.StepInto, v4proto.StepOver, v4proto.StepOut:
		return e.reply(cmd.ID, map[string]any{})

	case v4proto.SetBreakpoint:
		return e.handleSetBreakpoint(cmd)

	case v4proto.DeleteBreakpoint:
		return e.handleDeleteBreakpoint(cmd)

	case v4proto.GetBreakpoints:
		return e.handleGetBreakpoints(cmd)

	case v4proto.GetScriptData:
		return e.handleGetScriptData(cmd)

	case v4proto.GetBacktrace:
		return e.reply(cmd.ID, []any{})

	case v4proto.Evaluate:
		return e.handleEvaluate(cmd)

	case v4proto.GetThisObject:
		return e.reply(cmd.ID, map[string]any{"type": "ObjectValue", "value": "this-object-1"})

	case v4proto.GetScripts, v4proto.GetScriptsDelta:
		return e.handleGetScripts(cmd)

	case v4proto.ScriptsCheckpoint:
		e.mu.Lock()
		e.descCache.Purge()
		e.mu.Unlock()
		return e.reply(cmd.ID, map[string]any{})

	case v4proto.GetContextCount:
		return e.reply(cmd.ID, e.contextCount)

	case v4proto.GetContextInfo:
		return e.reply(cmd.ID, map[string]any{"index": 0, "name": "global"})

	case v4proto.GetPropertiesByIterator:
		return e.reply(cmd.ID, []any{})

	case v4proto.ScriptValueToString:
		return e.reply(cmd.ID, "[object Object]")

	case v4proto.NoOp:
		return e.reply(cmd.ID, map[string]any{})

	default:
		return e.reply(cmd.ID, map[string]any{})
	}
}

func (e *Engine) reply(id int, result any) bridge.Delivery {
	return bridge.Delivery{Response: &v4proto.Response{ID: id, Result: result}}
}

func (e *Engine) handleSetBreakpoint(cmd v4proto.Command) bridge.Delivery {
	data, _ := cmd.Command.Attributes["breakpointData"].(map[string]any)
	fileName, _ := data["fileName"].(string)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.scripts[fileName]; !ok {
		return e.reply(cmd.ID, map[string]any{"result": "no-script"})
	}
	id := e.nextBpID
	e.nextBpID++
	line, _ := data["lineNumber"].(int)
	if line == 0 {
		if f, ok := data["lineNumber"].(float64); ok {
			line = int(f)
		}
	}
	cond, _ := data["condition"].(string)
	e.breakpoints[id] = &breakpoint{id: id, fileName: fileName, line: line, condition: cond, enabled: true}
	return e.reply(cmd.ID, map[string]any{"result": id})
}

func (e *Engine) handleDeleteBreakpoint(cmd v4proto.Command) bridge.Delivery {
	raw := cmd.Command.Attributes["breakpointId"]
	id := toInt(raw)

	e.mu.Lock()
	delete(e.breakpoints, id)
	e.mu.Unlock()
	return e.reply(cmd.ID, map[string]any{})
}

func (e *Engine) handleGetBreakpoints(cmd v4proto.Command) bridge.Delivery {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := make([]any, 0, len(e.breakpoints))
	for _, bp := range e.breakpoints {
		s := e.scripts[bp.fileName]
		scriptID := ""
		if s != nil {
			scriptID = strconv.Itoa(s.ID)
		}
		list = append(list, map[string]any{"lineNumber": bp.line, "scriptId": scriptID})
	}
	return e.reply(cmd.ID, list)
}

func (e *Engine) handleGetScriptData(cmd v4proto.Command) bridge.Delivery {
	id := toInt(cmd.Command.Attributes["scriptId"])

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.descCache.Get(id); ok {
		s := cached.(*Script)
		return e.reply(cmd.ID, map[string]any{"result": map[string]any{"contents": s.Contents}})
	}
	s, ok := e.scriptsByID[id]
	if !ok {
		return e.reply(cmd.ID, map[string]any{})
	}
	e.descCache.Add(id, s)
	return e.reply(cmd.ID, map[string]any{"result": map[string]any{"contents": s.Contents}})
}

func (e *Engine) handleGetScripts(cmd v4proto.Command) bridge.Delivery {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := make([]any, 0, len(e.scriptsByID))
	for _, s := range e.scriptsByID {
		list = append(list, v4proto.ScriptDescriptor{
			ID: s.ID, FileName: s.FileName, Contents: s.Contents, BaseLineNumber: s.BaseLineNumber,
		})
	}
	return e.reply(cmd.ID, list)
}

func (e *Engine) handleEvaluate(cmd v4proto.Command) bridge.Delivery {
	program, _ := cmd.Command.Attributes["program"].(string)
	if strings.TrimSpace(program) == "" {
		return e.reply(cmd.ID, "undefined")
	}
	return e.reply(cmd.ID, program)
}

// Scripts returns a snapshot of all preloaded scripts, used by the
// adapter to synthesise the initial Debugger.scriptParsed burst.
func (e *Engine) Scripts() []Script {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Script, 0, len(e.scriptsByID))
	for _, s := range e.scriptsByID {
		out = append(out, *s)
	}
	return out
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}
