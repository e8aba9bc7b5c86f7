package strata

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TransactionDeadline bounds how long a commit waits for client acks. A
// misbehaving client must not stall every other window's geometry, so after
// this long the transaction completes regardless and the straggler shows at
// most one frame of stale content.
const TransactionDeadline = 1500 * time.Millisecond

// txnInner is the completion state shared by every handle of one
// transaction. It is the only structure in the core with multiple owners;
// the atomic flag plus the countdown make completion race-free between the
// ack path and the deadline timer.
type txnInner struct {
	id        uuid.UUID
	completed atomic.Bool
	remaining atomic.Int32

	mu     sync.Mutex
	notifs []func()
	onDone func()

	timer *Timer
	ping  Ping
}

// complete flips the transaction to done exactly once: it drains and fires
// the queued notifications, invokes the completion callback, and deregisters
// the now-redundant deadline timer so it cannot fire later into stale state.
func (in *txnInner) complete(reason string) {
	if in.completed.Swap(true) {
		return
	}
	log.Debug("transaction complete", "txn", in.id, "reason", reason)

	in.mu.Lock()
	notifs := in.notifs
	in.notifs = nil
	onDone := in.onDone
	in.mu.Unlock()

	for _, fn := range notifs {
		fn()
	}
	if onDone != nil {
		onDone()
	}
	if in.timer != nil && reason != "deadline" {
		in.ping.Ping()
	}
}

// Transaction is one window's handle on a pending commit, keyed to the
// configure serial the client must acknowledge. Releasing the last
// outstanding handle completes the barrier.
type Transaction struct {
	inner    *txnInner
	serial   Serial
	released atomic.Bool
}

// Serial returns the configure serial this handle waits on.
func (t *Transaction) Serial() Serial {
	return t.serial
}

// Release drops the handle. Idempotent; the last release completes the
// transaction unless the deadline already did.
func (t *Transaction) Release() {
	if t.released.Swap(true) {
		return
	}
	if t.inner.remaining.Add(-1) == 0 {
		t.inner.complete("acked")
	}
}

// Snapshot keeps an unmapping window's last-presented geometry alive until
// the transaction completes, so crossfade sources stay valid while the
// remaining windows settle.
type Snapshot struct {
	WindowID WindowID
	Geometry Rect
}

// TransactionBuilder collects the (window, target location, configure
// serial) triples of one synchronized geometry change.
type TransactionBuilder struct {
	inner      *txnInner
	targets    map[*Window]Rect
	order      []*Window
	swap       bool
	deadline   time.Duration
	timerArmed bool
	onComplete func(*PendingTransaction)
}

// NewTransactionBuilder starts an empty transaction.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		inner:    &txnInner{id: uuid.New()},
		targets:  make(map[*Window]Rect),
		deadline: TransactionDeadline,
	}
}

// WithDeadline overrides the default commit deadline.
func (b *TransactionBuilder) WithDeadline(d time.Duration) *TransactionBuilder {
	b.deadline = d
	return b
}

// OnComplete registers the completion callback, invoked exactly once with
// the frozen transaction from whichever of the ack path or the deadline
// finishes first. The callback is bound at IntoPending time, so it is safe
// even for transactions that complete immediately.
func (b *TransactionBuilder) OnComplete(fn func(*PendingTransaction)) *TransactionBuilder {
	b.onComplete = fn
	return b
}

// MarkSwap flags the transaction as two windows exchanging locations.
func (b *TransactionBuilder) MarkSwap() {
	b.swap = true
}

// Add records a target location for win. When serial is non-nil the window
// holds a handle until its client acknowledges that serial, and the first
// such call arms the deadline timer on the loop; later calls reuse it. A
// nil serial means the client needs no configure round-trip; the location is
// recorded without a handle.
func (b *TransactionBuilder) Add(win *Window, target Rect, serial *Serial, loop *Loop) {
	if _, ok := b.targets[win]; !ok {
		b.order = append(b.order, win)
	}
	b.targets[win] = target
	if serial == nil {
		return
	}

	if !b.timerArmed {
		b.timerArmed = true
		in := b.inner
		in.timer = loop.InsertTimer(b.deadline, func() {
			in.complete("deadline")
		})
		in.ping = loop.InsertPing(func() {
			in.timer.Cancel()
		})
	}

	b.inner.remaining.Add(1)
	txn := &Transaction{inner: b.inner, serial: *serial}
	win.attachTransaction(*serial, txn)
	log.Debug("transaction add", "txn", b.inner.id, "window", win.ID(), "serial", *serial)
}

// IntoPending freezes the builder. The caller publishes the result (so the
// completion callback observes it as current) and then calls Flush.
func (b *TransactionBuilder) IntoPending(snapshots []*Snapshot) *PendingTransaction {
	pt := &PendingTransaction{
		inner:     b.inner,
		targets:   b.targets,
		order:     b.order,
		swap:      b.swap,
		snapshots: snapshots,
	}
	if b.onComplete != nil {
		fn := b.onComplete
		b.inner.onDone = func() { fn(pt) }
	}
	return pt
}

// PendingTransaction is a frozen transaction waiting on its commit barrier.
// It shares the completion state with the per-window handles and owns the
// unmapping-window snapshots until completion.
type PendingTransaction struct {
	inner     *txnInner
	targets   map[*Window]Rect
	order     []*Window
	swap      bool
	snapshots []*Snapshot
}

// Flush completes the transaction immediately when no target needed a
// client round-trip. No-op while handles are outstanding.
func (pt *PendingTransaction) Flush() {
	if pt.inner.remaining.Load() == 0 {
		pt.inner.complete("no acks needed")
	}
}

// IsCompleted reports whether the barrier has released, via acks or
// deadline.
func (pt *PendingTransaction) IsCompleted() bool {
	return pt.inner.completed.Load()
}

// IsCancelled reports whether the transaction became moot: not yet complete
// and at least one target window's client is gone. The machinery never
// aborts on its own; callers poll this to discard dead transactions without
// waiting out the deadline.
func (pt *PendingTransaction) IsCancelled() bool {
	if pt.IsCompleted() {
		return false
	}
	for _, win := range pt.order {
		if !win.Alive() {
			return true
		}
	}
	return false
}

// IsSwap reports whether this transaction exchanges two windows' locations.
func (pt *PendingTransaction) IsSwap() bool {
	return pt.swap
}

// Target returns the target location recorded for win.
func (pt *PendingTransaction) Target(win *Window) (Rect, bool) {
	rect, ok := pt.targets[win]
	return rect, ok
}

// ForEachTarget visits the target locations in insertion order.
func (pt *PendingTransaction) ForEachTarget(fn func(win *Window, target Rect)) {
	for _, win := range pt.order {
		fn(win, pt.targets[win])
	}
}

// AddNotification queues fn to run at the moment of completion. Queuing
// after completion is a usage error: the flush has already happened, so the
// call is reported and dropped rather than silently re-fired.
func (pt *PendingTransaction) AddNotification(fn func()) {
	pt.inner.mu.Lock()
	defer pt.inner.mu.Unlock()
	if pt.inner.completed.Load() {
		log.Error("notification added to completed transaction", "txn", pt.inner.id)
		return
	}
	pt.inner.notifs = append(pt.inner.notifs, fn)
}
