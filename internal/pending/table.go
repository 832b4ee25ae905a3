// Package pending implements the thread-safe correlation table mapping
// an in-flight backend correlator id to the original CDP request that
// produced it (component B of the design).
package pending

import (
	"sync"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/cdp"
	"github.com/sirupsen/logrus"
)

// Table is the pending-request correlation table. Every entry
// corresponds to a request forwarded to the backend and not yet
// completed. Entries are inserted exactly once (on Store) and removed
// exactly once (on Take). There is no TTL: a lost backend response means
// a permanently orphaned entry, cleared only at adapter teardown.
type Table struct {
	mu  sync.Mutex
	log *logrus.Entry
	m   map[int]cdp.Request
}

// New returns an empty pending-request table.
func New(log *logrus.Entry) *Table {
	return &Table{log: log, m: make(map[int]cdp.Request)}
}

// Store records orig as the original CDP request for correlator id.
// Storing a duplicate id overwrites the previous entry — the adapter's
// chosen policy for a CDP client that reuses ids, since CDP does not
// specify behaviour under reuse. The overwrite is logged at Warn.
func (t *Table) Store(id int, orig cdp.Request) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.m[id]; exists && t.log != nil {
		t.log.Warnf("pending request id %d overwritten before its response arrived", id)
	}
	t.m[id] = orig
}

// Take removes and returns the CDP request stored for id, reporting
// whether it was present. An unknown id (ok == false) means the response
// is unmatchable; callers must fall back to a generic wrapper rather than
// treat this as an error.
func (t *Table) Take(id int) (cdp.Request, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	orig, ok := t.m[id]
	if ok {
		delete(t.m, id)
	}
	return orig, ok
}

// Len reports the number of in-flight entries. At quiescence this is
// zero (spec.md §8 invariant 3).
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}
