package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"time"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/testscript"
	"github.com/gorilla/websocket"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const caseTimeout = 5 * time.Second

// driver replays a testscript.Script's cases over a WebSocket connection
// to a running adapter's discovery endpoint, comparing received frames
// against each case's expected response.
type driver struct {
	script *testscript.Script
	conn   *websocket.Conn
	proc   *exec.Cmd
	logF   *os.File
	out    io.Writer
	color  bool
}

func newDriver(discoveryURL, testCasesPath, externalCommand, logfile string, delayMs int) (*driver, error) {
	f, err := os.Open(testCasesPath)
	if err != nil {
		return nil, fmt.Errorf("cdpconform: opening test cases: %w", err)
	}
	defer f.Close()
	script, err := testscript.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("cdpconform: parsing test cases: %w", err)
	}

	d := &driver{script: script, out: colorable.NewColorableStdout(), color: isatty.IsTerminal(os.Stdout.Fd())}

	if externalCommand != "" {
		logF, err := os.Create(logfile)
		if err != nil {
			return nil, fmt.Errorf("cdpconform: creating logfile: %w", err)
		}
		d.logF = logF

		parts := strings.Fields(externalCommand)
		cmd := exec.Command(parts[0], parts[1:]...)
		cmd.Stdout = logF
		cmd.Stderr = logF
		if err := cmd.Start(); err != nil {
			logF.Close()
			return nil, fmt.Errorf("cdpconform: starting external command: %w", err)
		}
		d.proc = cmd
	}

	time.Sleep(time.Duration(delayMs) * time.Millisecond)

	wsURL, err := resolveWebSocketURL(discoveryURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cdpconform: dialing %s: %w", wsURL, err)
	}
	d.conn = conn

	return d, nil
}

// resolveWebSocketURL fetches /json/list from the discovery HTTP URL and
// picks the first target's webSocketDebuggerUrl, same discovery flow a
// real DevTools frontend follows.
func resolveWebSocketURL(discoveryURL string) (string, error) {
	u, err := url.Parse(discoveryURL)
	if err != nil {
		return "", fmt.Errorf("cdpconform: invalid discovery url: %w", err)
	}
	u.Path = "/json/list"

	resp, err := http.Get(u.String())
	if err != nil {
		return "", fmt.Errorf("cdpconform: fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	var targets []struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return "", fmt.Errorf("cdpconform: decoding /json/list: %w", err)
	}
	if len(targets) == 0 {
		return "", fmt.Errorf("cdpconform: no targets returned by %s", u)
	}
	return targets[0].WebSocketDebuggerURL, nil
}

// Close tears down the WebSocket connection and any spawned external
// process.
func (d *driver) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
	if d.proc != nil && d.proc.Process != nil {
		_ = d.proc.Process.Kill()
		_ = d.proc.Wait()
	}
	if d.logF != nil {
		d.logF.Close()
	}
}

// Run replays every case in order, printing a PASS/FAIL line per case.
// It returns false if any case failed.
func (d *driver) Run() (bool, error) {
	allPassed := true
	for _, c := range d.script.Cases {
		passed, err := d.runCase(c)
		if err != nil {
			return false, err
		}
		if !passed {
			allPassed = false
		}
	}
	return allPassed, nil
}

func (d *driver) runCase(c *testscript.Case) (bool, error) {
	if c.Request != "" {
		if err := d.conn.WriteMessage(websocket.TextMessage, []byte(c.Request)); err != nil {
			return false, fmt.Errorf("cdpconform: sending request for %q: %w", c.Name, err)
		}
	}

	if !c.HasResponse {
		d.report(c.Name, true, "")
		return true, nil
	}
	if c.Response == "IGNORE" {
		// Still drain a frame so later cases don't see stale data, but
		// don't fail the suite if none arrives in time.
		_, _ = d.readWithTimeout()
		d.report(c.Name, true, "")
		return true, nil
	}

	got, err := d.readWithTimeout()
	if err != nil {
		d.report(c.Name, false, err.Error())
		return false, nil
	}

	equal, diff := compareJSON(c.Response, got)
	d.report(c.Name, equal, diff)
	return equal, nil
}

func (d *driver) readWithTimeout() (string, error) {
	d.conn.SetReadDeadline(time.Now().Add(caseTimeout))
	_, msg, err := d.conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("timed out or connection error: %w", err)
	}
	return string(msg), nil
}

func compareJSON(want, got string) (bool, string) {
	var wantVal, gotVal any
	if err := json.Unmarshal([]byte(want), &wantVal); err != nil {
		return false, fmt.Sprintf("expected value is not valid JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(got), &gotVal); err != nil {
		return false, fmt.Sprintf("received value is not valid JSON: %v", err)
	}
	if reflect.DeepEqual(wantVal, gotVal) {
		return true, ""
	}
	return false, fmt.Sprintf("want %s, got %s", want, got)
}

func (d *driver) report(name string, passed bool, detail string) {
	label := "PASS"
	if !passed {
		label = "FAIL"
	}
	var buf bytes.Buffer
	if d.color && passed {
		fmt.Fprintf(&buf, "\x1b[32m%s\x1b[0m %s\n", label, name)
	} else if d.color && !passed {
		fmt.Fprintf(&buf, "\x1b[31m%s\x1b[0m %s\n", label, name)
	} else {
		fmt.Fprintf(&buf, "%s %s\n", label, name)
	}
	if detail != "" {
		fmt.Fprintf(&buf, "  %s\n", detail)
	}
	io.Copy(d.out, &buf)
}
