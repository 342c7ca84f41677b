package carousel

import (
	"context"
	"time"

	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/scrollphase"
)

// Viewport is the host's scroll-to-offset primitive.
type Viewport interface {
	ScrollTo(offset float64, animated bool)
}

// ExtentViewport is implemented by viewports that clamp to content extents.
// The carousel sets the extents before its first centering scroll.
type ExtentViewport interface {
	Viewport
	SetExtents(min, max float64)
}

// Config configures a Carousel. The zero value of every optional field
// selects its default.
type Config[T any, V any] struct {
	// Items is the logical data source. It must not change after New.
	Items []T
	// Spacing is the gap between cards. Zero selects DefaultSpacing;
	// negative values are treated as no gap.
	Spacing float64
	// AutoScrollInterval enables auto-advance when positive.
	AutoScrollInterval time.Duration
	// SelectedIndex is the initial logical selection, clamped to [0, N).
	SelectedIndex int
	// OnSelectedIndexChange is the write side of the selection binding.
	// It is called on the UI thread whenever the committed logical
	// selection changes.
	OnSelectedIndexChange func(index int)
	// Content renders one card. The carousel never inspects items.
	Content func(item T) V
	// Dispatcher marshals auto-advance fires onto the UI thread.
	// Nil queues them until the host calls Pump.
	Dispatcher Dispatcher
	// Clock supplies the auto-advance countdown. Nil uses the system clock.
	Clock Clock
}

// Carousel is an infinitely looping paged carousel.
//
// Items are laid out three times (see Build). The user scrolls freely over
// all 3N slots; whenever the view settles in a clone region it is moved to
// the congruent slot in the middle region without animation, so the loop
// never runs out. Only the logical index is ever reported to the caller.
//
// All methods must be called from the host's UI thread.
type Carousel[T any, V any] struct {
	config     Config[T, V]
	slots      []Slot[T]
	n          int
	geometry   *Geometry
	snap       *SnapState
	resolver   *SnapResolver
	pos        position
	reconciler *Reconciler
	scheduler  *AutoAdvance

	viewport    Viewport
	unsubscribe func()
	cancel      context.CancelFunc

	centered  bool
	notified  int
	lastReady bool
	disposed  bool
}

// New builds a carousel. The display position is seeded to the real-region
// slot of the initial selection so the first resolve has a correct
// neighborhood before anything is rendered.
func New[T any, V any](config Config[T, V]) *Carousel[T, V] {
	spacing := config.Spacing
	if spacing == 0 {
		spacing = DefaultSpacing
	}
	n := len(config.Items)
	ctx, cancel := context.WithCancel(context.Background())

	c := &Carousel[T, V]{
		config:   config,
		slots:    Build(config.Items),
		n:        n,
		geometry: NewGeometry(spacing),
		snap:     &SnapState{},
		cancel:   cancel,
	}
	c.resolver = NewSnapResolver(c.snap, c.geometry, 3*n)
	c.pos = position{n: n}
	if n > 0 {
		initial := min(max(config.SelectedIndex, 0), n-1)
		c.pos.set(n + initial)
		c.snap.Commit(n + initial)
	}
	c.notified = c.pos.selected

	c.reconciler = newReconciler(c.snap, &c.pos, reconcilerHooks{
		ready:        c.canMove,
		committed:    c.notify,
		jumped:       c.jumpTo,
		phaseChanged: c.phaseChanged,
	})
	c.scheduler = NewAutoAdvance(ctx, config.AutoScrollInterval, config.Clock, config.Dispatcher, c.advance)
	return c
}

// Len returns the number of logical items.
func (c *Carousel[T, V]) Len() int { return c.n }

// Slots returns the tripled slot sequence.
func (c *Carousel[T, V]) Slots() []Slot[T] { return c.slots }

// Render calls Content for every slot in order. A panicking Content call is
// reported and yields the zero value for that slot.
func (c *Carousel[T, V]) Render() []V {
	if c.config.Content == nil || len(c.slots) == 0 {
		return nil
	}
	views := make([]V, len(c.slots))
	for i, slot := range c.slots {
		views[i] = c.renderSlot(slot)
	}
	return views
}

func (c *Carousel[T, V]) renderSlot(slot Slot[T]) (view V) {
	defer errors.RecoverCallback("carousel.Content")
	return c.config.Content(slot.Item)
}

// SelectedIndex returns the logical index of the current slot.
func (c *Carousel[T, V]) SelectedIndex() int { return c.pos.selected }

// DisplayPosition returns the current slot index in [0, 3N).
func (c *Carousel[T, V]) DisplayPosition() int { return c.pos.display }

// Phase returns the last scroll phase applied.
func (c *Carousel[T, V]) Phase() scrollphase.Phase { return c.reconciler.Phase() }

// Geometry exposes the geometry cache.
func (c *Carousel[T, V]) Geometry() *Geometry { return c.geometry }

// Snap exposes the shared snap cell. It must only be touched on the UI
// thread.
func (c *Carousel[T, V]) Snap() *SnapState { return c.snap }

// AutoAdvance exposes the auto-advance scheduler.
func (c *Carousel[T, V]) AutoAdvance() *AutoAdvance { return c.scheduler }

// OffsetForSlot returns the scroll offset that centers slot. Content is
// padded by HorizontalInset on both sides so offset zero centers slot zero.
func (c *Carousel[T, V]) OffsetForSlot(slot int) float64 {
	return float64(slot) * c.geometry.StepWidth()
}

// MaxOffset is the largest valid scroll offset.
func (c *Carousel[T, V]) MaxOffset() float64 {
	if c.n == 0 {
		return 0
	}
	return c.OffsetForSlot(3*c.n - 1)
}

// Attach connects the carousel to its host. Phase events from source drive
// the reconciler until Dispose. Either argument may be nil.
func (c *Carousel[T, V]) Attach(viewport Viewport, source scrollphase.Source) {
	if c.disposed {
		return
	}
	c.viewport = viewport
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if source != nil {
		c.unsubscribe = source.Subscribe(c.HandlePhase)
	}
	c.geometryChanged()
}

// RecordMeasurement reports the measured size of a rendered card. Only the
// first positive-width measurement is kept.
func (c *Carousel[T, V]) RecordMeasurement(size Size) {
	if c.disposed {
		return
	}
	c.geometry.RecordMeasurement(size)
	c.geometryChanged()
}

// RecordContainerWidth reports the viewport width.
func (c *Carousel[T, V]) RecordContainerWidth(width float64) {
	if c.disposed {
		return
	}
	c.geometry.RecordContainerWidth(width)
	c.geometryChanged()
}

func (c *Carousel[T, V]) geometryChanged() {
	ready := c.canMove()
	if ready && !c.centered && c.viewport != nil {
		c.centered = true
		if ev, ok := c.viewport.(ExtentViewport); ok {
			ev.SetExtents(0, c.MaxOffset())
		}
		c.snap.Commit(c.pos.display)
		c.viewport.ScrollTo(c.OffsetForSlot(c.pos.display), false)
	}
	if ready != c.lastReady {
		c.lastReady = ready
		c.scheduler.Restart(c.reconciler.Phase(), ready)
	}
}

// AdjustScrollTarget is the host's target-adjustment hook. Given the
// offset the host's own deceleration would stop at, it returns the offset
// of the resolved page and records that page in the snap cell before
// returning. Hosts must report the decelerating phase after calling it.
func (c *Carousel[T, V]) AdjustScrollTarget(proposed float64) float64 {
	if c.disposed || !c.canMove() {
		return proposed
	}
	return c.OffsetForSlot(c.resolver.ResolveTarget(proposed))
}

// HandlePhase applies a scroll-phase transition.
func (c *Carousel[T, V]) HandlePhase(event scrollphase.Event) {
	if c.disposed {
		return
	}
	c.reconciler.Handle(event)
}

// Select pages to slot with animation, as a tap on that slot would.
// Out-of-range slots are clamped into [0, 3N).
func (c *Carousel[T, V]) Select(slot int) {
	if c.disposed || !c.canMove() {
		return
	}
	slot = min(max(slot, 0), 3*c.n-1)
	c.pos.set(slot)
	c.snap.Commit(slot)
	c.notify(c.pos.selected)
	if c.viewport != nil {
		c.viewport.ScrollTo(c.OffsetForSlot(slot), true)
	}
}

// SetSelectedIndex is the read side of the selection binding: the caller
// changes the logical selection. The carousel pages to the real-region slot
// for index. Before geometry is ready only the seed position changes.
func (c *Carousel[T, V]) SetSelectedIndex(index int) {
	if c.disposed || c.n == 0 {
		return
	}
	index = min(max(index, 0), c.n-1)
	if index == c.pos.selected {
		return
	}
	c.notified = index
	if !c.canMove() {
		c.pos.set(c.n + index)
		c.snap.Commit(c.n + index)
		return
	}
	c.Select(c.n + index)
}

// Pump applies auto-advance fires queued since the last call. Hosts that
// leave Config.Dispatcher nil must call it from the UI thread, typically once
// per frame; with a Dispatcher it does nothing.
func (c *Carousel[T, V]) Pump() {
	c.scheduler.Pump()
}

// Dispose cancels any pending auto-advance and detaches from the phase
// source. The carousel ignores all further calls.
func (c *Carousel[T, V]) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.scheduler.Stop()
	c.cancel()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.viewport = nil
}

func (c *Carousel[T, V]) canMove() bool {
	return c.n > 0 && c.geometry.StepWidth() > 0 && c.geometry.IsReady()
}

func (c *Carousel[T, V]) notify(selected int) {
	if selected == c.notified {
		return
	}
	c.notified = selected
	if c.config.OnSelectedIndexChange == nil {
		return
	}
	defer errors.RecoverCallback("carousel.OnSelectedIndexChange")
	c.config.OnSelectedIndexChange(selected)
}

func (c *Carousel[T, V]) jumpTo(display int) {
	if c.viewport != nil {
		c.viewport.ScrollTo(c.OffsetForSlot(display), false)
	}
}

func (c *Carousel[T, V]) phaseChanged(phase scrollphase.Phase) {
	c.scheduler.Restart(phase, c.canMove())
}

func (c *Carousel[T, V]) advance() {
	if c.disposed {
		return
	}
	c.Select(c.pos.display + 1)
}
