// Package wsserver implements the WebSocket session manager (component
// G) and the event pump (component H): it accepts CDP client
// connections, dispatches their incoming frames through the mapper and
// bridge, broadcasts backend-originated events, and prunes disconnected
// clients from its registry.
package wsserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/bridge"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/mapper"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/pending"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Conn is the minimal surface wsserver needs from a client socket,
// satisfied by *websocket.Conn; narrowed for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// ScriptSource supplies the set of known scripts for the initial event
// burst (§4.G); internal/adapter adapts *v4engine.Engine to this.
type ScriptSource interface {
	Scripts() []v4proto.ScriptDescriptor
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the WebSocket session manager. One Server instance serves a
// single debug target (one frontend identity), matching spec.md's
// "one script engine per adapter instance" non-goal.
type Server struct {
	frontendName string
	bridge       *bridge.Bridge
	pending      *pending.Table
	scripts      ScriptSource
	log          *logrus.Entry

	mu          sync.Mutex
	clients     []Conn
	requestOf   map[int]Conn   // correlator id -> originating client, for routing responses back
	debuggerIDs map[Conn]string // per-connection debuggerId reported on Debugger.enable
}

// New builds a Server. frontendName is the frontend identity used to
// build scriptParsed URLs; b is the already-running backend bridge; pt is
// the shared pending-request table; scripts supplies the known-script set
// for the initial burst.
func New(frontendName string, b *bridge.Bridge, pt *pending.Table, scripts ScriptSource, log *logrus.Entry) *Server {
	s := &Server{frontendName: frontendName, bridge: b, pending: pt, scripts: scripts, log: log, requestOf: make(map[int]Conn), debuggerIDs: make(map[Conn]string)}
	go s.pumpEvents()
	go s.drainPushedDeliveries()
	return s
}

// drainPushedDeliveries routes the replies to ordinary asynchronously
// pushed CDP-originated commands (handleFrame's bridge.Push calls) back
// to their originating client, as they arrive on the bridge's shared
// delivery stream.
func (s *Server) drainPushedDeliveries() {
	for d := range s.bridge.Deliveries() {
		s.routeDelivery(d)
	}
}

// HandleUpgrade is the http.HandlerFunc mounted at the accepted
// devtools upgrade paths by internal/discovery.
func (s *Server) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.log != nil {
			s.log.Warnf("websocket upgrade failed: %v", err)
		}
		return
	}
	s.onAccept(conn)
}

func (s *Server) onAccept(conn Conn) {
	s.mu.Lock()
	s.clients = append(s.clients, conn)
	s.debuggerIDs[conn] = uuid.NewString()
	s.mu.Unlock()

	s.sendInitialBurst(conn)
	go s.readLoop(conn)
}

// sendInitialBurst sends Runtime.executionContextCreated followed by one
// Debugger.scriptParsed per known script, in that order (spec.md §4.G,
// invariant 5).
func (s *Server) sendInitialBurst(conn Conn) {
	_ = conn.WriteJSON(cdp.ExecutionContextCreatedEvent(s.frontendName, 1))
	if s.scripts == nil {
		return
	}
	for _, sc := range s.scripts.Scripts() {
		_ = conn.WriteJSON(cdp.ScriptParsedEvent(sc.ID, sc.FileName, sc.Contents, s.frontendName, 1))
	}
}

func (s *Server) readLoop(conn Conn) {
	defer s.disconnect(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleFrame(conn, data)
	}
}

func (s *Server) handleFrame(conn Conn, data []byte) {
	var req cdp.Request
	if err := json.Unmarshal(data, &req); err != nil {
		if s.log != nil {
			s.log.Warnf("dropping malformed CDP frame: %v", err)
		}
		return
	}

	if resp, handled := s.handleLocally(req, conn); handled {
		_ = conn.WriteJSON(resp)
		return
	}

	tr, ok := mapper.MapRequest(req)
	if !ok {
		_ = conn.WriteJSON(cdp.MethodNotFound(req.ID))
		return
	}
	if tr.Passthrough {
		_ = conn.WriteJSON(cdp.EmptyResult(req.ID))
		return
	}

	s.mu.Lock()
	s.requestOf[req.ID] = conn
	s.mu.Unlock()

	s.pending.Store(req.ID, req)
	s.bridge.Push(tr.Command)
}

// handleLocally answers the three CDP methods the transport layer
// intercepts before the mapper ever sees them (spec.md §4.C "Locally
// handled without mapping"): Runtime.enable, Debugger.enable and
// Debugger.disable. The per-connection scriptParsed burst for
// Debugger.enable is already sent once, at accept time, by
// sendInitialBurst — this only needs to answer with the debugger id.
func (s *Server) handleLocally(req cdp.Request, conn Conn) (cdp.Response, bool) {
	switch req.Method {
	case "Runtime.enable", "Debugger.disable":
		return cdp.EmptyResult(req.ID), true
	case "Debugger.enable":
		s.mu.Lock()
		id, ok := s.debuggerIDs[conn]
		s.mu.Unlock()
		if !ok {
			id = s.frontendName + "-debugger-1"
		}
		return cdp.Response{ID: req.ID, Result: map[string]any{"debuggerId": id}}, true
	default:
		return cdp.Response{}, false
	}
}

func (s *Server) disconnect(conn Conn) {
	s.mu.Lock()
	for i, c := range s.clients {
		if c == conn {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			break
		}
	}
	delete(s.debuggerIDs, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

// Broadcast writes ev to every currently-connected client, skipping any
// write error silently (spec.md §5: a disconnected client's dropped
// response/event is not an adapter-visible error).
func (s *Server) Broadcast(ev cdp.Event) {
	s.mu.Lock()
	clients := make([]Conn, len(s.clients))
	copy(clients, s.clients)
	s.mu.Unlock()

	for _, c := range clients {
		_ = c.WriteJSON(ev)
	}
}

// pumpEvents is the event pump (component H): react to the bridge's
// "events pending" signal by issuing that many sequential PullEvent
// backend calls, in order, routing each reply to the response path or
// the event mapper depending on its shape.
func (s *Server) pumpEvents() {
	for n := range s.bridge.EventsPending() {
		for i := 0; i < n; i++ {
			d := s.bridge.SyncCall(v4proto.NewCommand(0, v4proto.PullEvent, nil))
			s.routeDelivery(d)
		}
	}
}

func (s *Server) routeDelivery(d bridge.Delivery) {
	if d.Event != nil {
		cdpEv, ok := mapper.MapEvent(*d.Event, s.bridge)
		if !ok {
			// A suppressed InlineEvalFinished (auto-resume) is not a mapping gap.
			if s.log != nil && d.Event.Event.Type != v4proto.InlineEvalFinished {
				s.log.Warnf("dropping backend event with no CDP mapping: %s", d.Event.Event.Type)
			}
			return
		}
		s.Broadcast(cdpEv)
		return
	}
	if d.Response != nil {
		s.routeResponse(*d.Response)
	}
}

func (s *Server) routeResponse(resp v4proto.Response) {
	conn := s.takeRequestConn(resp.ID)

	orig, ok := s.pending.Take(resp.ID)
	if !ok {
		if s.log != nil {
			s.log.Warnf("backend response for unknown id %d", resp.ID)
		}
		if conn != nil {
			_ = conn.WriteJSON(mapper.UnmatchedResponse(resp))
		}
		return
	}
	cdpResp := mapper.MapResponse(orig, resp)
	// conn is nil when no client is recorded for this id. A client that
	// disconnected mid-request is still recorded, so the write goes to its
	// closed socket and the error is discarded (spec.md §5 "client
	// disconnect mid-request": never an adapter-visible error).
	if conn != nil {
		_ = conn.WriteJSON(cdpResp)
	}
}

func (s *Server) takeRequestConn(id int) Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn := s.requestOf[id]
	delete(s.requestOf, id)
	return conn
}
