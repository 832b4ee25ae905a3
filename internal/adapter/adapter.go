// Package adapter wires the HTTP discovery surface, the WebSocket
// session manager, the backend bridge, and the fake V4 engine together
// into one runnable server, modeled on delve's
// service/rpccommon.ServerImpl (NewServer/Run/Stop over a net.Listener
// and a stopChan) and service/dap.Server's single-target lifecycle.
package adapter

import (
	"fmt"
	"net"
	"net/http"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/bridge"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/discovery"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/pending"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4engine"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/wsserver"
	"github.com/sirupsen/logrus"
)

// Config is all the information necessary to start the adapter.
type Config struct {
	ListenAddr   string
	FrontendName string
	Log          *logrus.Entry
}

// scriptSourceAdapter adapts *v4engine.Engine's []v4engine.Script to the
// []v4proto.ScriptDescriptor shape wsserver.ScriptSource expects.
type scriptSourceAdapter struct{ engine *v4engine.Engine }

func (a scriptSourceAdapter) Scripts() []v4proto.ScriptDescriptor {
	scripts := a.engine.Scripts()
	out := make([]v4proto.ScriptDescriptor, len(scripts))
	for i, s := range scripts {
		out[i] = v4proto.ScriptDescriptor{ID: s.ID, FileName: s.FileName, Contents: s.Contents, BaseLineNumber: s.BaseLineNumber}
	}
	return out
}

// Server is the running adapter: one debug target, one frontend
// identity, matching spec.md's "one script engine per adapter instance"
// non-goal.
type Server struct {
	config   Config
	listener net.Listener
	httpSrv  *http.Server
	bridge   *bridge.Bridge
	ws       *wsserver.Server
	engine   *v4engine.Engine
	stopCh   chan struct{}
}

// NewServer builds a Server preloaded with scripts, wiring the fake
// engine, the bridge, the pending table, the WebSocket session manager
// and the HTTP discovery router together. It does not yet listen; call
// Run for that.
func NewServer(cfg Config, scripts []v4engine.Script) *Server {
	engine := v4engine.New(scripts, 0)
	b := bridge.New(engine, cfg.Log)
	engine.BindEventSignal(b)

	pt := pending.New(cfg.Log)
	ws := wsserver.New(cfg.FrontendName, b, pt, scriptSourceAdapter{engine}, cfg.Log)

	id := discovery.Identity{Name: cfg.FrontendName, ListenAddr: cfg.ListenAddr}
	router := discovery.NewRouter(id, ws.HandleUpgrade, cfg.Log)

	return &Server{
		config:  cfg,
		httpSrv: &http.Server{Handler: router},
		bridge:  b,
		ws:      ws,
		engine:  engine,
		stopCh:  make(chan struct{}),
	}
}

// Run binds the configured listen address and serves HTTP until Stop is
// called. Run blocks until the HTTP server stops; a bind failure is
// fatal per spec.md §7 ("TCP bind failure: Fatal; adapter does not
// start").
func (s *Server) Run() error {
	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("adapter: bind %s: %w", s.config.ListenAddr, err)
	}
	s.listener = listener
	s.httpSrv.Addr = listener.Addr().String()

	err = s.httpSrv.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop tears down the HTTP listener and the backend bridge.
func (s *Server) Stop() error {
	close(s.stopCh)
	s.bridge.Stop()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Engine exposes the fake backend stand-in so tests and the conformance
// driver's companion process can drive events directly.
func (s *Server) Engine() *v4engine.Engine { return s.engine }

// Broadcast is exposed for components (like a future admin surface)
// that need to push a CDP event to every connected client directly.
func (s *Server) Broadcast(method string, params map[string]any) {
	s.ws.Broadcast(cdp.Event{Method: method, Params: params})
}
