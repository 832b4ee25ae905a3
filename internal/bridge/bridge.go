// Package bridge implements the synchronous-call-plus-asynchronous-push
// envelope across the boundary between the I/O thread (HTTP/WebSocket,
// mappers, pending table) and the engine thread (the V4 backend),
// component I of the design.
//
// Rather than the blocking cross-thread function call the original
// implementation relies on (see SPEC_FULL.md §9 DESIGN NOTES), the
// bridge here is an explicit request channel plus a reply channel: the
// caller enqueues (request, oneshot-reply-slot) and awaits the slot;
// the engine goroutine fulfils it. Async pushes simply omit the reply
// slot and let the result surface later on the shared Deliveries stream.
package bridge

import (
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4proto"
	"github.com/sirupsen/logrus"
)

// Engine is implemented by whatever runs on the engine thread and can
// handle a single backend command, returning either a correlated
// response or — for a pulled PullEvent command — a queued event. It must
// only ever be invoked from the bridge's own goroutine.
type Engine interface {
	Handle(cmd v4proto.Command) Delivery
}

// Delivery is a single item arriving from the engine thread: either a
// response correlated by ID, or an event with no correlator, matching
// the "absence of ID / presence of Event field" distinction in
// SPEC_FULL.md §4.H.
type Delivery struct {
	Response *v4proto.Response
	Event    *v4proto.Event
}

type job struct {
	cmd   v4proto.Command
	reply chan Delivery // nil for an async push
}

// Bridge owns the single goroutine that plays the role of the engine
// thread, serializing all access to Engine so it is "never entered from
// another thread except through the bridge" (spec.md §8 invariant 4).
type Bridge struct {
	engine        Engine
	jobs          chan job
	out           chan Delivery
	eventsPending chan int
	stopCh        chan struct{}
	log           *logrus.Entry
}

// New starts the bridge's engine-thread goroutine against engine.
func New(engine Engine, log *logrus.Entry) *Bridge {
	b := &Bridge{
		engine:        engine,
		jobs:          make(chan job, 64),
		out:           make(chan Delivery, 64),
		eventsPending: make(chan int, 16),
		stopCh:        make(chan struct{}),
		log:           log,
	}
	go b.run()
	return b
}

func (b *Bridge) run() {
	for {
		select {
		case j := <-b.jobs:
			d := b.engine.Handle(j.cmd)
			if j.reply != nil {
				j.reply <- d
				continue
			}
			select {
			case b.out <- d:
			case <-b.stopCh:
				return
			}
		case <-b.stopCh:
			return
		}
	}
}

// Push enqueues cmd for asynchronous processing; its eventual Delivery
// surfaces on Deliveries(). Push never blocks the caller on the engine's
// processing time, only on the (generously buffered) queue itself.
func (b *Bridge) Push(cmd v4proto.Command) {
	select {
	case b.jobs <- job{cmd: cmd}:
	case <-b.stopCh:
	}
}

// SyncCall enqueues cmd with the reserved correlator id 0 (never used by
// real clients) and blocks the caller until the engine thread has
// produced a reply. It must never be invoked while the caller holds a
// lock the engine thread also needs (spec.md §5).
func (b *Bridge) SyncCall(cmd v4proto.Command) Delivery {
	cmd.ID = 0
	reply := make(chan Delivery, 1)
	select {
	case b.jobs <- job{cmd: cmd, reply: reply}:
	case <-b.stopCh:
		return Delivery{}
	}
	select {
	case d := <-reply:
		return d
	case <-b.stopCh:
		return Delivery{}
	}
}

// Deliveries is the stream of asynchronous push results: ordinary
// correlated responses and pulled events alike, in the order the engine
// thread produced them.
func (b *Bridge) Deliveries() <-chan Delivery {
	return b.out
}

// NotifyEventsPending is called by the backend's event producer (the
// fake engine's PushEvent, on whichever goroutine pushes the event) to
// signal that n events are queued and ready to be pulled. It is the only
// signal the backend raises outside of fulfilling a job, matching "the
// backend raises a single 'N events pending' signal rather than
// delivering events directly" (spec.md §4.H).
func (b *Bridge) NotifyEventsPending(n int) {
	select {
	case b.eventsPending <- n:
	case <-b.stopCh:
	}
}

// EventsPending is the stream of "N events pending" signals the event
// pump (component H) drains to issue PullEvent pulls.
func (b *Bridge) EventsPending() <-chan int {
	return b.eventsPending
}

// Stop shuts down the engine-thread goroutine. Any in-flight SyncCall
// returns a zero Delivery.
func (b *Bridge) Stop() {
	close(b.stopCh)
}
