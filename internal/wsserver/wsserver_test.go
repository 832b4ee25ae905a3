package wsserver

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/bridge"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/pending"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
)

type fakeConn struct {
	mu      sync.Mutex
	written []any
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {} // tests drive handleFrame directly, never the read loop
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) last() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.written) == 0 {
		return nil
	}
	return c.written[len(c.written)-1]
}

type echoEngine struct{}

func (echoEngine) Handle(cmd v4proto.Command) bridge.Delivery {
	return bridge.Delivery{Response: &v4proto.Response{ID: cmd.ID, Result: map[string]any{"ok": true}}}
}

func newTestServer() (*Server, *bridge.Bridge) {
	b := bridge.New(echoEngine{}, nil)
	pt := pending.New(nil)
	s := New("jsrunner", b, pt, nil, nil)
	return s, b
}

func toJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestRuntimeEnableIsLocalWithEmptyResult(t *testing.T) {
	s, _ := newTestServer()
	conn := &fakeConn{}

	s.handleFrame(conn, toJSON(t, map[string]any{"id": 7, "method": "Runtime.enable"}))

	resp, ok := conn.last().(cdp.Response)
	if !ok {
		t.Fatalf("expected a cdp.Response, got %T", conn.last())
	}
	if resp.ID != 7 {
		t.Fatalf("expected id 7, got %d", resp.ID)
	}
	m, _ := resp.Result.(map[string]any)
	if len(m) != 0 {
		t.Fatalf("expected empty result, got %v", m)
	}
}

func TestUnsupportedMethodReturnsMethodNotFound(t *testing.T) {
	s, _ := newTestServer()
	conn := &fakeConn{}

	s.handleFrame(conn, toJSON(t, map[string]any{"id": 99, "method": "Profiler.enable"}))

	resp, ok := conn.last().(cdp.Response)
	if !ok {
		t.Fatalf("expected a cdp.Response, got %T", conn.last())
	}
	if resp.Error == nil || resp.Error.Code != cdp.ErrCodeMethodNotFound {
		t.Fatalf("expected MethodNotFound error, got %+v", resp)
	}
}

func TestNoOpPassthroughAnswersWithoutBackendRoundTrip(t *testing.T) {
	s, _ := newTestServer()
	conn := &fakeConn{}

	s.handleFrame(conn, toJSON(t, map[string]any{"id": 5, "method": "Debugger.setPauseOnExceptions", "params": map[string]any{}}))

	resp, ok := conn.last().(cdp.Response)
	if !ok {
		t.Fatalf("expected a cdp.Response, got %T", conn.last())
	}
	if resp.ID != 5 || resp.Error != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestForwardedRequestRoutesResponseBackToOriginatingClient(t *testing.T) {
	s, _ := newTestServer()
	conn := &fakeConn{}

	s.handleFrame(conn, toJSON(t, map[string]any{
		"id": 52, "method": "Debugger.removeBreakpoint", "params": map[string]any{"breakpointId": "1"},
	}))

	deadline := time.After(time.Second)
	for conn.last() == nil {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for response to reach the originating client")
		case <-time.After(time.Millisecond):
		}
	}
	resp, ok := conn.last().(cdp.Response)
	if !ok {
		t.Fatalf("expected a cdp.Response, got %T", conn.last())
	}
	if resp.ID != 52 {
		t.Fatalf("expected id 52, got %d", resp.ID)
	}
}

func TestBroadcastReachesAllConnectedClients(t *testing.T) {
	s, _ := newTestServer()
	a, b := &fakeConn{}, &fakeConn{}
	s.onAccept(a)
	s.onAccept(b)

	s.Broadcast(cdp.Event{Method: "Debugger.paused"})

	for _, c := range []*fakeConn{a, b} {
		ev, ok := c.last().(cdp.Event)
		if !ok || ev.Method != "Debugger.paused" {
			t.Fatalf("expected both clients to receive the broadcast, got %+v", c.last())
		}
	}
}
