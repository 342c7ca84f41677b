// Package animation provides the frame-driven timing primitives used to
// animate carousel paging.
//
// # Core Components
//
//   - [Ticker]: calls a callback once per frame while active. Hosts drive all
//     active tickers from their frame loop with [StepTickers].
//
//   - [SpringSimulation]: damped spring used for snapping a scroll position
//     onto a page, and for animated programmatic scrolls.
//
//   - [Clock]: injectable time source. Tests replace it with a fake clock so
//     frame stepping is deterministic.
//
// # Basic Usage
//
//	sim := animation.NewSpringSimulation(animation.PagingSpring(), from, velocity, to)
//	ticker := animation.NewTicker(func(_, delta time.Duration) {
//	    if sim.Step(delta.Seconds()) {
//	        ticker.Stop()
//	    }
//	})
//	ticker.Start()
//
//	// In the host frame loop
//	animation.StepTickers()
package animation

import (
	"sync"
	"time"
)

var (
	tickerMu      sync.Mutex
	activeTickers = make(map[*Ticker]struct{})
)

// Ticker calls a callback on each frame while active.
//
// The callback receives the time elapsed since Start and the time elapsed
// since the previous frame. Tickers are driven by the host's frame loop via
// [StepTickers].
type Ticker struct {
	callback func(elapsed, delta time.Duration)
	isActive bool
	start    time.Time
	last     time.Time
}

// NewTicker creates a new ticker with the given callback.
func NewTicker(callback func(elapsed, delta time.Duration)) *Ticker {
	return &Ticker{
		callback: callback,
	}
}

// Start activates the ticker. Starting an active ticker is a no-op.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = Now()
	t.last = t.start
	tickerMu.Lock()
	activeTickers[t] = struct{}{}
	tickerMu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	tickerMu.Lock()
	delete(activeTickers, t)
	tickerMu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return Now().Sub(t.start)
}

func (t *Ticker) tick(now time.Time) {
	if !t.isActive || t.callback == nil {
		return
	}
	delta := now.Sub(t.last)
	if delta < 0 {
		delta = 0
	}
	t.last = now
	t.callback(now.Sub(t.start), delta)
}

// StepTickers advances all active tickers.
// This should be called once per frame from the host.
func StepTickers() {
	tickerMu.Lock()
	if len(activeTickers) == 0 {
		tickerMu.Unlock()
		return
	}
	// Copy so callbacks can start or stop tickers without deadlocking.
	tickers := make([]*Ticker, 0, len(activeTickers))
	for ticker := range activeTickers {
		tickers = append(tickers, ticker)
	}
	tickerMu.Unlock()

	now := Now()
	for _, ticker := range tickers {
		ticker.tick(now)
	}
}

// HasActiveTickers returns true if any tickers are active.
func HasActiveTickers() bool {
	tickerMu.Lock()
	defer tickerMu.Unlock()
	return len(activeTickers) > 0
}
