package discovery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testIdentity() Identity {
	return Identity{Name: "jsrunner", ListenAddr: "localhost:9222"}
}

func TestJsonListReturnsSingleTarget(t *testing.T) {
	r := NewRouter(testIdentity(), func(w http.ResponseWriter, req *http.Request) {}, nil)

	req := httptest.NewRequest(http.MethodGet, "/json/list", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one target, got %d", len(got))
	}
	if got[0]["type"] != "page" {
		t.Fatalf("expected type page, got %v", got[0]["type"])
	}
	wsURL, _ := got[0]["webSocketDebuggerUrl"].(string)
	if wsURL != "ws://localhost:9222/devtools/page/jsrunner-js" {
		t.Fatalf("unexpected webSocketDebuggerUrl %q", wsURL)
	}
}

func TestJsonVersionHasProtocolVersion(t *testing.T) {
	r := NewRouter(testIdentity(), func(w http.ResponseWriter, req *http.Request) {}, nil)

	req := httptest.NewRequest(http.MethodGet, "/json/version", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var got map[string]any
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got["Protocol-Version"] != "1.3" {
		t.Fatalf("unexpected Protocol-Version %v", got["Protocol-Version"])
	}
}

func TestWrongUpgradePathRejected(t *testing.T) {
	r := NewRouter(testIdentity(), func(w http.ResponseWriter, req *http.Request) {}, nil)

	req := httptest.NewRequest(http.MethodGet, "/devtools/page/other-js", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrong upgrade path, got %d", rec.Code)
	}
}

func TestCorsHeaderPresent(t *testing.T) {
	r := NewRouter(testIdentity(), func(w http.ResponseWriter, req *http.Request) {}, nil)

	req := httptest.NewRequest(http.MethodGet, "/json/list", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard CORS header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
