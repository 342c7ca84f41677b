// Package scroll is a headless horizontal scroll host for carousels.
//
// [Position] tracks an offset within extents, follows drag deltas, and on
// release coasts to a target with spring physics. Before coasting it runs a
// [TargetAdjuster] hook that may replace the natural target, then reports
// the decelerating phase in the same call. Phase changes are available both
// as pushed notifications (scrollphase.Notifier) and as pollable flags
// (scrollphase.ScrollState), so one host serves either capability.
//
// Animation is frame driven: each running animation registers an
// [animation.Ticker], and the host's frame loop calls
// [animation.StepTickers].
package scroll

import (
	"math"
	"time"

	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/scrollphase"
)

// TargetAdjuster may replace the offset a fling would naturally stop at.
type TargetAdjuster interface {
	AdjustScrollTarget(proposed float64) float64
}

// TargetAdjusterFunc adapts a function to TargetAdjuster.
type TargetAdjusterFunc func(proposed float64) float64

// AdjustScrollTarget calls f.
func (f TargetAdjusterFunc) AdjustScrollTarget(proposed float64) float64 {
	return f(proposed)
}

// Position stores the scroll offset and drives drag and coast animation.
type Position struct {
	offset   float64
	min      float64
	max      float64
	dragging bool
	phase    scrollphase.Phase

	// Spring configures coasting; zero uses animation.PagingSpring.
	Spring animation.SpringDescription

	adjuster TargetAdjuster
	onUpdate func()
	sim      *animation.SpringSimulation
	ticker   *animation.Ticker

	hooks      map[int]func(from, to scrollphase.Phase, offset float64)
	nextHookID int
}

// NewPosition creates an idle position at offset zero. onUpdate, if not
// nil, is called whenever the offset changes.
func NewPosition(onUpdate func()) *Position {
	return &Position{
		onUpdate: onUpdate,
		hooks:    make(map[int]func(from, to scrollphase.Phase, offset float64)),
	}
}

// SetTargetAdjuster installs the hook run when a drag is released.
func (p *Position) SetTargetAdjuster(adjuster TargetAdjuster) {
	p.adjuster = adjuster
}

// Offset returns the current scroll offset.
func (p *Position) Offset() float64 {
	return p.offset
}

// Extents returns the min and max scroll offsets.
func (p *Position) Extents() (float64, float64) {
	return p.min, p.max
}

// SetExtents updates the min/max scroll extents, clamping the offset.
func (p *Position) SetExtents(min, max float64) {
	if max < min {
		max = min
	}
	p.min = min
	p.max = max
	p.setOffset(p.offset)
}

// Phase returns the current scroll phase.
func (p *Position) Phase() scrollphase.Phase {
	return p.phase
}

// IsDragging reports whether a drag is in progress.
func (p *Position) IsDragging() bool {
	return p.dragging
}

// IsDecelerating reports whether a coast or animated scroll is running.
func (p *Position) IsDecelerating() bool {
	return p.sim != nil
}

// OnPhaseChange installs a phase hook and returns its remover.
func (p *Position) OnPhaseChange(fn func(from, to scrollphase.Phase, offset float64)) func() {
	if fn == nil {
		return func() {}
	}
	id := p.nextHookID
	p.nextHookID++
	p.hooks[id] = fn
	return func() {
		delete(p.hooks, id)
	}
}

// BeginDrag starts a drag, interrupting any running animation.
func (p *Position) BeginDrag() {
	p.stopAnimation()
	p.dragging = true
	p.setPhase(scrollphase.Dragging)
}

// ApplyUserOffset moves the offset by delta during a drag.
func (p *Position) ApplyUserOffset(delta float64) {
	if !p.dragging {
		p.BeginDrag()
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	p.setOffset(p.offset + delta)
}

// EndDrag releases the drag with the given velocity in offset units per
// second. The natural stopping point is projected from the velocity, passed
// through the target adjuster, and the decelerating phase is reported
// before this method returns.
func (p *Position) EndDrag(velocity float64) {
	if !p.dragging {
		return
	}
	p.release(normalizeVelocity(velocity))
}

// CancelDrag ends a drag without a fling. The target adjuster still runs,
// so a paging adjuster brings the offset back onto a page.
func (p *Position) CancelDrag() {
	if !p.dragging {
		return
	}
	p.release(0)
}

func (p *Position) release(velocity float64) {
	p.dragging = false
	target := p.clamp(p.offset + projectedDistance(velocity))
	if p.adjuster != nil {
		target = p.clamp(p.adjuster.AdjustScrollTarget(target))
	}
	if velocity == 0 && target == p.offset {
		p.setPhase(scrollphase.Idle)
		return
	}
	p.startAnimation(p.coastSpring(), velocity, target)
}

// ScrollTo moves to offset. Animated scrolls spring to the target without
// overshoot and are reported as decelerating; a running animation is
// redirected rather than restarted. Instant scrolls jump and cancel any
// animation.
func (p *Position) ScrollTo(offset float64, animated bool) {
	offset = p.clamp(offset)
	p.dragging = false
	if animated {
		if p.sim != nil {
			if p.sim.Target() != offset {
				p.sim.Retarget(offset)
			}
			p.setPhase(scrollphase.Decelerating)
			return
		}
		p.startAnimation(animation.CriticalSpring(), 0, offset)
		return
	}
	p.stopAnimation()
	p.setOffset(offset)
	p.setPhase(scrollphase.Idle)
}

// Dispose stops animation and removes all phase hooks.
func (p *Position) Dispose() {
	p.stopAnimation()
	clear(p.hooks)
}

func (p *Position) coastSpring() animation.SpringDescription {
	if p.Spring == (animation.SpringDescription{}) {
		return animation.PagingSpring()
	}
	return p.Spring
}

func (p *Position) startAnimation(spring animation.SpringDescription, velocity, target float64) {
	p.stopAnimation()
	p.sim = animation.NewSpringSimulation(spring, p.offset, velocity, target)
	p.ticker = animation.NewTicker(p.step)
	p.ticker.Start()
	p.setPhase(scrollphase.Decelerating)
}

func (p *Position) step(_, delta time.Duration) {
	if p.sim == nil {
		return
	}
	// Cap the step so a stalled frame does not teleport the view.
	const maxDelta = 32 * time.Millisecond
	if delta > maxDelta {
		delta = maxDelta
	}
	done := p.sim.Step(delta.Seconds())
	p.setOffset(p.sim.Position())
	if done {
		p.stopAnimation()
		p.setPhase(scrollphase.Idle)
	}
}

func (p *Position) stopAnimation() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	p.sim = nil
}

func (p *Position) setOffset(value float64) {
	clamped := p.clamp(value)
	if clamped == p.offset {
		return
	}
	p.offset = clamped
	if p.onUpdate != nil {
		p.onUpdate()
	}
}

func (p *Position) setPhase(to scrollphase.Phase) {
	if to == p.phase {
		return
	}
	from := p.phase
	p.phase = to
	// Hooks may remove themselves while running.
	hooks := make([]func(from, to scrollphase.Phase, offset float64), 0, len(p.hooks))
	for _, fn := range p.hooks {
		hooks = append(hooks, fn)
	}
	for _, fn := range hooks {
		fn(from, to, p.offset)
	}
}

func (p *Position) clamp(value float64) float64 {
	if math.IsNaN(value) {
		return p.offset
	}
	return math.Min(math.Max(value, p.min), p.max)
}

func normalizeVelocity(velocity float64) float64 {
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return 0
	}
	const maxAbs = 4500.0
	return math.Min(math.Max(velocity, -maxAbs), maxAbs)
}

// projectedDistance estimates how far a fling travels under the friction
// model used for free scrolling: deceleration grows with speed.
func projectedDistance(velocity float64) float64 {
	speed := math.Abs(velocity)
	if speed < 5 {
		return 0
	}
	decel := 2200.0 + 0.385*speed
	return velocity * speed / (2 * decel)
}
