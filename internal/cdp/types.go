// Package cdp models the Chrome DevTools Protocol wire shapes the
// adapter speaks to its WebSocket clients: requests, responses, events,
// and the script metadata needed to build Debugger.scriptParsed events.
package cdp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Request is a CDP request from client to server. A request with a
// non-zero ID expects a matching Response; requests the client sends are
// always of this shape (events only flow server->client).
type Request struct {
	ID     int            `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// Response is a CDP response, echoing the originating request's ID with
// either Result or Error set, never both.
type Response struct {
	ID     int    `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Error is the CDP error envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Event is a CDP server-to-client notification: method + params, no id.
type Event struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// Well-known CDP error codes used by the adapter.
const (
	ErrCodeMethodNotFound = -32601
	ErrCodeServerError    = -32000
)

// MethodNotFound builds the standard "unknown method" error response.
func MethodNotFound(id int) Response {
	return Response{ID: id, Error: &Error{Code: ErrCodeMethodNotFound, Message: "Method not found"}}
}

// EmptyResult builds a {result: {}} response, the shape used by every
// locally-handled or no-op passthrough CDP method.
func EmptyResult(id int) Response {
	return Response{ID: id, Result: map[string]any{}}
}

// NormalizeScriptURL strips an optional "scheme://" prefix and a
// trailing "(N)" disambiguation suffix from a Debugger.setBreakpointByUrl
// url parameter, then trims whitespace. Mirrors
// V4CdpMapper::normalizeScriptName.
func NormalizeScriptURL(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ")") {
		if open := strings.LastIndex(s, "("); open >= 0 {
			suffix := s[open+1 : len(s)-1]
			if isDigits(suffix) {
				s = strings.TrimSpace(s[:open])
			}
		}
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ScriptParsedEvent builds the Debugger.scriptParsed event payload for a
// single backend script descriptor, per the wire shape documented in
// §4.G: scriptId, url, line/column bounds, executionContextId and a
// SHA-256 content hash.
func ScriptParsedEvent(scriptID int, fileName, contents string, frontendName string, executionContextID int) Event {
	sum := sha256.Sum256([]byte(contents))
	return Event{
		Method: "Debugger.scriptParsed",
		Params: map[string]any{
			"scriptId":           fmt.Sprintf("%d", scriptID),
			"url":                fmt.Sprintf("%s://%s", frontendName, fileName),
			"startLine":          0,
			"startColumn":        0,
			"endLine":            strings.Count(contents, "\n"),
			"endColumn":          0,
			"executionContextId": executionContextID,
			"hash":               hex.EncodeToString(sum[:]),
		},
	}
}

// ExecutionContextCreatedEvent builds the Runtime.executionContextCreated
// event sent once, first, to every newly connected client.
func ExecutionContextCreatedEvent(frontendName string, contextID int) Event {
	lower := strings.ToLower(frontendName)
	return Event{
		Method: "Runtime.executionContextCreated",
		Params: map[string]any{
			"context": map[string]any{
				"id":       contextID,
				"origin":   fmt.Sprintf("%s://javascript", lower),
				"name":     fmt.Sprintf("%s JavaScript Context", frontendName),
				"uniqueId": fmt.Sprintf("%s-js-context", lower),
			},
		},
	}
}
