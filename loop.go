package strata

import (
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Loop is the single-threaded cooperative event loop the core runs on. All
// mutation of trees, transactions, and window state happens on the loop
// goroutine; other goroutines hand work over with QueueUpdate. Timers are
// the only suspension mechanism; nothing in the core blocks the loop.
type Loop struct {
	queue   chan func()
	stopCh  chan struct{}
	stopped bool
	now     func() time.Time

	mu     sync.Mutex
	timers []*Timer
}

// NewLoop creates an event loop ready to Run.
func NewLoop() *Loop {
	return &Loop{
		queue:  make(chan func(), 256),
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
}

// Run processes queued events and due timers until Stop is called.
func (l *Loop) Run() error {
	for !l.stopped {
		wait := l.untilNextTimer()
		select {
		case fn := <-l.queue:
			fn()
		case <-time.After(wait):
			l.fireDue(l.now())
		case <-l.stopCh:
			return nil
		}
	}
	return nil
}

// Stop signals Run to exit gracefully. Idempotent.
func (l *Loop) Stop() {
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stopCh)
}

// QueueUpdate enqueues fn to run on the loop goroutine.
// Safe to call from any goroutine.
func (l *Loop) QueueUpdate(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.stopCh:
		// Loop is stopping, ignore update
	default:
		log.Warn("event queue full, dropping update")
	}
}

// untilNextTimer returns how long Run may sleep before a timer is due.
func (l *Loop) untilNextTimer() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return time.Second
	}
	wait := l.timers[0].deadline.Sub(l.now())
	if wait < 0 {
		wait = 0
	}
	return wait
}

// fireDue runs every timer whose deadline is at or before now. Exposed to
// tests through Advance, so deadline behavior can be driven by a simulated
// clock instead of wall time.
func (l *Loop) fireDue(now time.Time) {
	l.mu.Lock()
	var due []*Timer
	rest := l.timers[:0]
	for _, t := range l.timers {
		if !t.cancelled && !t.deadline.After(now) {
			due = append(due, t)
		} else if !t.cancelled {
			rest = append(rest, t)
		}
	}
	l.timers = rest
	l.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// Advance fires all timers due within d of the loop's current time. Test
// hook: production code never advances the clock by hand.
func (l *Loop) Advance(d time.Duration) {
	l.fireDue(l.now().Add(d))
}

// Drain synchronously runs every queued event. Test hook for code paths
// that hand work to the loop without Run being active.
func (l *Loop) Drain() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Timer is a cancelable deadline callback registered on the loop.
type Timer struct {
	deadline  time.Time
	fn        func()
	cancelled bool
}

// Cancel deregisters the timer; a cancelled timer never fires.
func (t *Timer) Cancel() {
	t.cancelled = true
}

// InsertTimer registers fn to run on the loop once d has elapsed.
func (l *Loop) InsertTimer(d time.Duration, fn func()) *Timer {
	t := &Timer{deadline: l.now().Add(d), fn: fn}
	l.mu.Lock()
	l.timers = append(l.timers, t)
	sort.Slice(l.timers, func(i, j int) bool {
		return l.timers[i].deadline.Before(l.timers[j].deadline)
	})
	l.mu.Unlock()
	return t
}

// Ping is a cross-callback wakeup primitive: calling Ping queues its
// callback onto the loop. Used to deregister a pending deadline timer from
// a completion path that may run while the loop is mid-iteration.
type Ping struct {
	loop *Loop
	fn   func()
}

// InsertPing registers a wakeup callback and returns its trigger.
func (l *Loop) InsertPing(fn func()) Ping {
	return Ping{loop: l, fn: fn}
}

// Ping schedules the callback. Safe to call from any goroutine.
func (p Ping) Ping() {
	if p.loop == nil {
		return
	}
	p.loop.QueueUpdate(p.fn)
}
