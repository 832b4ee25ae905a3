// Package discovery implements the HTTP discovery surface (component F):
// /json/version, /json/list, /json/protocol, and the WebSocket upgrade
// path check that gates entry into internal/wsserver.
package discovery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Identity is the frontend identity: the short name used to synthesise
// target ids, debugger ids, origins and discovery URLs (spec.md GLOSSARY).
type Identity struct {
	Name       string
	ListenAddr string
}

func (id Identity) targetID() string {
	return fmt.Sprintf("%s-js", strings.ToLower(id.Name))
}

func (id Identity) wsPath(kind string) string {
	return fmt.Sprintf("/devtools/%s/%s", kind, id.targetID())
}

func (id Identity) wsURL(kind string) string {
	return fmt.Sprintf("ws://%s%s", id.ListenAddr, id.wsPath(kind))
}

// NewRouter builds the chi router serving the discovery surface and
// mounting wsHandler at the two accepted upgrade paths
// (/devtools/page/<frontend>-js, /devtools/browser/<frontend>-js). Any
// other upgrade path falls through to the router's NotFound handler,
// which logs a warning and answers 404.
func NewRouter(id Identity, wsHandler http.HandlerFunc, log *logrus.Entry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/json/version", versionHandler(id))
	r.Get("/json/list", listHandler(id))
	r.Get("/json/protocol", protocolHandler())

	r.Get(id.wsPath("page"), wsHandler)
	r.Get(id.wsPath("browser"), wsHandler)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if log != nil {
			log.Warnf("rejected request for unknown path %s", req.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
	})

	return r
}

func versionHandler(id Identity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"Browser":         fmt.Sprintf("%s/1.0", id.Name),
			"Protocol-Version": "1.3",
			"User-Agent":      id.Name,
			"V8-Version":      "9.4.0",
			"webSocketDebuggerUrl": id.wsURL("page"),
		})
	}
}

func listHandler(id Identity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{
				"id":                  id.targetID(),
				"title":               id.Name,
				"type":                "page",
				"description":         fmt.Sprintf("%s debug target", id.Name),
				"url":                 fmt.Sprintf("%s://javascript", strings.ToLower(id.Name)),
				"devtoolsFrontendUrl": fmt.Sprintf("devtools://devtools/bundled/js_app.html?ws=%s%s", id.ListenAddr, id.wsPath("page")),
				"webSocketDebuggerUrl": id.wsURL("page"),
			},
		})
	}
}

// protocolDescriptor is the static descriptor served at /json/protocol,
// matching the hard-coded domain object in CdpDebuggerFrontend's own
// setupHttpRoutes — just enough for a client to learn the adapter covers
// the Debugger and Runtime domains.
var protocolDescriptor = map[string]any{
	"version": map[string]any{"major": "1", "minor": "3"},
	"domains": []map[string]any{
		{
			"domain": "Debugger",
			"commands": []string{
				"enable", "disable", "pause", "resume", "stepInto", "stepOver", "stepOut",
				"setBreakpointByUrl", "removeBreakpoint", "getPossibleBreakpoints",
				"getScriptSource", "getStackTrace", "evaluateOnCallFrame",
				"setPauseOnExceptions", "setAsyncCallStackDepth", "setBlackboxPatterns",
			},
			"events": []string{"scriptParsed", "paused"},
		},
		{
			"domain":   "Runtime",
			"commands": []string{"evaluate", "getProperties", "callFunctionOn", "enable"},
			"events":   []string{"executionContextCreated", "exceptionThrown"},
		},
	},
}

func protocolHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, protocolDescriptor)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
