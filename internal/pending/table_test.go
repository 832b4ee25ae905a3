package pending

import (
	"sync"
	"testing"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
)

func TestStoreTakeRoundTrip(t *testing.T) {
	tbl := New(nil)
	req := cdp.Request{ID: 52, Method: "Debugger.setBreakpointByUrl"}
	tbl.Store(52, req)

	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}

	got, ok := tbl.Take(52)
	if !ok {
		t.Fatalf("Take(52) ok = false, want true")
	}
	if got.Method != req.Method {
		t.Fatalf("Take(52).Method = %q, want %q", got.Method, req.Method)
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len() after Take = %d, want 0 (entries removed exactly once)", tbl.Len())
	}
}

func TestTakeUnknownIDReturnsNotOK(t *testing.T) {
	tbl := New(nil)
	_, ok := tbl.Take(999)
	if ok {
		t.Fatalf("Take on unknown id: ok = true, want false")
	}
}

func TestStoreOverwritesDuplicateID(t *testing.T) {
	tbl := New(nil)
	tbl.Store(1, cdp.Request{ID: 1, Method: "Debugger.pause"})
	tbl.Store(1, cdp.Request{ID: 1, Method: "Debugger.resume"})

	got, ok := tbl.Take(1)
	if !ok || got.Method != "Debugger.resume" {
		t.Fatalf("Take(1) = (%+v, %v), want last-stored entry to win", got, ok)
	}
}

func TestConcurrentStoreTake(t *testing.T) {
	tbl := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			tbl.Store(id, cdp.Request{ID: id, Method: "Debugger.pause"})
			tbl.Take(id)
		}(i)
	}
	wg.Wait()
	if tbl.Len() != 0 {
		t.Fatalf("Len() after concurrent store/take = %d, want 0", tbl.Len())
	}
}
