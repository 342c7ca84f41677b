package carousel

import (
	"context"
	"time"

	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/scrollphase"
)

// Clock supplies the countdown primitive for auto-advance.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Dispatcher runs fn on the host's UI thread. Auto-advance waits on a
// background goroutine and uses the dispatcher to apply its effect.
type Dispatcher func(fn func())

// pendingFires bounds the fires queued for Pump when no Dispatcher is set.
const pendingFires = 4

// AutoAdvance is a restart-on-interaction countdown.
//
// Each Restart cancels the outstanding countdown and bumps a generation
// token. A countdown is only armed while the phase is Idle and geometry is
// ready. When it elapses, the fire is dispatched to the UI thread, where it
// checks its token and context and drops itself if superseded. Without a
// Dispatcher fires are queued and only run when the UI thread calls Pump;
// the countdown goroutine never touches scheduler or carousel state.
type AutoAdvance struct {
	interval time.Duration
	clock    Clock
	dispatch Dispatcher
	queue    chan func()
	advance  func()
	parent   context.Context

	generation uint64
	cancel     context.CancelFunc
	phase      scrollphase.Phase
	ready      bool
	fired      int
}

// NewAutoAdvance returns a scheduler calling advance after interval of
// uninterrupted idleness. A non-positive interval disables it.
func NewAutoAdvance(ctx context.Context, interval time.Duration, clock Clock, dispatch Dispatcher, advance func()) *AutoAdvance {
	if clock == nil {
		clock = systemClock{}
	}
	var queue chan func()
	if dispatch == nil {
		queue = make(chan func(), pendingFires)
	}
	return &AutoAdvance{
		interval: interval,
		clock:    clock,
		dispatch: dispatch,
		queue:    queue,
		advance:  advance,
		parent:   ctx,
	}
}

// Enabled reports whether an interval is configured.
func (a *AutoAdvance) Enabled() bool {
	return a.interval > 0
}

// Armed reports whether a countdown is outstanding.
func (a *AutoAdvance) Armed() bool {
	return a.cancel != nil
}

// Fired returns how many countdowns have applied their effect.
func (a *AutoAdvance) Fired() int {
	return a.fired
}

// Restart cancels any outstanding countdown and arms a new one if phase is
// Idle and geometry is ready.
func (a *AutoAdvance) Restart(phase scrollphase.Phase, ready bool) {
	if !a.Enabled() {
		return
	}
	a.phase = phase
	a.ready = ready
	a.Stop()
	if phase != scrollphase.Idle || !ready || a.parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(a.parent)
	a.cancel = cancel
	token := a.generation
	elapsed := a.clock.After(a.interval)

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-elapsed:
		}
		effect := func() {
			if ctx.Err() != nil || token != a.generation {
				return
			}
			a.fire()
		}
		if a.queue == nil {
			a.dispatch(effect)
			return
		}
		select {
		case a.queue <- effect:
		case <-ctx.Done():
		}
	}()
}

// Pump runs queued fires on the calling goroutine and returns how many were
// taken off the queue. Hosts that configure no Dispatcher call it from their
// UI loop, once per frame.
func (a *AutoAdvance) Pump() int {
	if a.queue == nil {
		return 0
	}
	n := 0
	for {
		select {
		case effect := <-a.queue:
			effect()
			n++
		default:
			return n
		}
	}
}

func (a *AutoAdvance) fire() {
	a.cancel()
	a.cancel = nil
	a.fired++
	func() {
		defer errors.Recover("carousel.autoAdvance")
		if a.advance != nil {
			a.advance()
		}
	}()
	// Hosts that report the programmatic scroll restart the countdown
	// through phase changes; this covers hosts that do not.
	if a.cancel == nil {
		a.Restart(a.phase, a.ready)
	}
}

// Stop cancels the outstanding countdown, if any.
func (a *AutoAdvance) Stop() {
	a.generation++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}
