package carousel

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/scrollphase"
	drifttest "github.com/go-drift/carousel/pkg/testing"
)

type card struct {
	ID    int
	Title string
}

func cards(n int) []card {
	items := make([]card, n)
	for i := range items {
		items[i] = card{ID: i, Title: fmt.Sprintf("Card %d", i)}
	}
	return items
}

// newReady returns a carousel with step width 100 attached to a recording
// viewport.
func newReady(t *testing.T, config Config[card, string]) (*Carousel[card, string], *drifttest.Viewport) {
	t.Helper()
	if config.Spacing == 0 {
		config.Spacing = 20
	}
	c := New(config)
	t.Cleanup(c.Dispose)
	vp := &drifttest.Viewport{}
	c.Attach(vp, nil)
	c.RecordMeasurement(Size{Width: 80, Height: 50})
	c.RecordContainerWidth(320)
	return c, vp
}

func settle(c *Carousel[card, string]) {
	c.HandlePhase(scrollphase.Event{From: scrollphase.Idle, To: scrollphase.Decelerating})
	c.HandlePhase(scrollphase.Event{From: scrollphase.Decelerating, To: scrollphase.Idle})
}

func TestNew_SeedsRealRegion(t *testing.T) {
	c := New(Config[card, string]{Items: cards(5)})
	if c.DisplayPosition() != 5 || c.SelectedIndex() != 0 {
		t.Errorf("display=%d selected=%d, want 5/0", c.DisplayPosition(), c.SelectedIndex())
	}
	if c.Geometry().Spacing() != DefaultSpacing {
		t.Errorf("spacing = %v, want default", c.Geometry().Spacing())
	}

	c = New(Config[card, string]{Items: cards(5), SelectedIndex: 3})
	if c.DisplayPosition() != 8 || c.SelectedIndex() != 3 {
		t.Errorf("display=%d selected=%d, want 8/3", c.DisplayPosition(), c.SelectedIndex())
	}

	c = New(Config[card, string]{Items: cards(5), SelectedIndex: 42})
	if c.SelectedIndex() != 4 {
		t.Errorf("out-of-range initial selection clamped to %d, want 4", c.SelectedIndex())
	}
}

func TestInitialCenteringScroll(t *testing.T) {
	c := New(Config[card, string]{Items: cards(5), Spacing: 20})
	vp := &drifttest.Viewport{}
	c.Attach(vp, nil)

	c.RecordContainerWidth(320)
	if len(vp.Commands) != 0 {
		t.Fatal("must not scroll before a card is measured")
	}
	c.RecordMeasurement(Size{Width: 80, Height: 50})
	c.RecordMeasurement(Size{Width: 120, Height: 50})
	c.RecordContainerWidth(400)

	if len(vp.Commands) != 1 {
		t.Fatalf("expected exactly one centering scroll, got %+v", vp.Commands)
	}
	if got := vp.Commands[0]; got != (drifttest.ScrollCommand{Offset: 500, Animated: false}) {
		t.Errorf("centering scroll = %+v, want instant to 500", got)
	}
	if c.Geometry().StepWidth() != 100 {
		t.Errorf("second measurement changed step to %v", c.Geometry().StepWidth())
	}
	if c.MaxOffset() != 1400 {
		t.Errorf("MaxOffset = %v, want 1400", c.MaxOffset())
	}
}

func TestTapFrontCloneThenLoopback(t *testing.T) {
	var changes []int
	c, vp := newReady(t, Config[card, string]{
		Items:                 cards(5),
		OnSelectedIndexChange: func(i int) { changes = append(changes, i) },
	})
	vp.Reset()

	c.Select(3)
	if c.DisplayPosition() != 3 || c.SelectedIndex() != 3 {
		t.Fatalf("after tap display=%d selected=%d, want 3/3", c.DisplayPosition(), c.SelectedIndex())
	}
	if last, _ := vp.Last(); last != (drifttest.ScrollCommand{Offset: 300, Animated: true}) {
		t.Fatalf("tap should animate to 300, got %+v", last)
	}

	settle(c)
	if c.DisplayPosition() != 8 {
		t.Errorf("loopback display = %d, want 8", c.DisplayPosition())
	}
	if c.SelectedIndex() != 3 {
		t.Errorf("selected changed to %d across loopback", c.SelectedIndex())
	}
	if last, _ := vp.Last(); last != (drifttest.ScrollCommand{Offset: 800, Animated: false}) {
		t.Errorf("loopback should jump instantly to 800, got %+v", last)
	}
	if len(changes) != 1 || changes[0] != 3 {
		t.Errorf("selection notifications = %v, want [3]", changes)
	}
	if snap := c.Snap(); snap.CurrentIndex != 8 {
		t.Errorf("snap current = %d, want 8", snap.CurrentIndex)
	}
}

func TestSelect_ClampsOutOfRange(t *testing.T) {
	c, _ := newReady(t, Config[card, string]{Items: cards(4)})
	c.Select(99)
	if c.DisplayPosition() != 11 {
		t.Errorf("display = %d, want 11", c.DisplayPosition())
	}
	c.Select(-3)
	if c.DisplayPosition() != 0 {
		t.Errorf("display = %d, want 0", c.DisplayPosition())
	}
}

func TestSwipeThroughAdjustHook(t *testing.T) {
	c, _ := newReady(t, Config[card, string]{Items: cards(5)})

	c.HandlePhase(scrollphase.Event{From: scrollphase.Idle, To: scrollphase.Dragging, Offset: 500})
	// The host would fling far; the hook keeps it to one page.
	target := c.AdjustScrollTarget(1320)
	if target != 600 {
		t.Fatalf("adjusted target = %v, want 600", target)
	}
	c.HandlePhase(scrollphase.Event{From: scrollphase.Dragging, To: scrollphase.Decelerating, Offset: 560})
	if c.SelectedIndex() != 1 {
		t.Errorf("selected = %d, want 1 at decelerate", c.SelectedIndex())
	}
	c.HandlePhase(scrollphase.Event{From: scrollphase.Decelerating, To: scrollphase.Idle, Offset: 600})

	// Next swipe clamps around the new center, not the stale one.
	if got := c.AdjustScrollTarget(1320); got != 700 {
		t.Errorf("second swipe target = %v, want 700", got)
	}
}

func TestEmptyIsInert(t *testing.T) {
	var changes int
	c := New(Config[card, string]{
		OnSelectedIndexChange: func(int) { changes++ },
		Content:               func(card) string { return "x" },
	})
	defer c.Dispose()
	vp := &drifttest.Viewport{}
	c.Attach(vp, nil)
	c.RecordMeasurement(Size{Width: 80, Height: 50})
	c.RecordContainerWidth(320)

	if !c.Geometry().IsReady() {
		t.Error("geometry readiness is independent of items")
	}
	c.Select(2)
	c.SetSelectedIndex(1)
	settle(c)
	if got := c.AdjustScrollTarget(250); got != 250 {
		t.Errorf("AdjustScrollTarget = %v, want passthrough", got)
	}
	if c.Len() != 0 || c.Slots() != nil || c.Render() != nil {
		t.Error("empty carousel should have no slots")
	}
	if c.DisplayPosition() != 0 || c.SelectedIndex() != 0 || c.MaxOffset() != 0 {
		t.Errorf("display=%d selected=%d", c.DisplayPosition(), c.SelectedIndex())
	}
	if len(vp.Commands) != 0 || changes != 0 {
		t.Errorf("inert carousel scrolled %+v or notified %d", vp.Commands, changes)
	}
}

func TestNotReady_PositionOpsAreNoOps(t *testing.T) {
	c := New(Config[card, string]{Items: cards(3)})
	vp := &drifttest.Viewport{}
	c.Attach(vp, nil)
	c.Select(1)
	if c.DisplayPosition() != 3 {
		t.Errorf("Select moved to %d without geometry", c.DisplayPosition())
	}
	if got := c.AdjustScrollTarget(123); got != 123 {
		t.Errorf("AdjustScrollTarget = %v, want passthrough", got)
	}
	if len(vp.Commands) != 0 {
		t.Errorf("unexpected scrolls %+v", vp.Commands)
	}
}

func TestSetSelectedIndex(t *testing.T) {
	var changes []int
	c, vp := newReady(t, Config[card, string]{
		Items:                 cards(5),
		OnSelectedIndexChange: func(i int) { changes = append(changes, i) },
	})
	vp.Reset()

	c.SetSelectedIndex(2)
	if c.DisplayPosition() != 7 || c.SelectedIndex() != 2 {
		t.Errorf("display=%d selected=%d, want 7/2", c.DisplayPosition(), c.SelectedIndex())
	}
	if last, _ := vp.Last(); last != (drifttest.ScrollCommand{Offset: 700, Animated: true}) {
		t.Errorf("expected animated scroll to 700, got %+v", last)
	}
	if len(changes) != 0 {
		t.Errorf("caller writes must not echo back, got %v", changes)
	}

	vp.Reset()
	c.SetSelectedIndex(2)
	if len(vp.Commands) != 0 {
		t.Error("setting the current index should not scroll")
	}
}

func TestSetSelectedIndex_BeforeReadySeeds(t *testing.T) {
	c := New(Config[card, string]{Items: cards(4), Spacing: 20})
	vp := &drifttest.Viewport{}
	c.Attach(vp, nil)
	c.SetSelectedIndex(3)
	if c.DisplayPosition() != 7 {
		t.Fatalf("seed display = %d, want 7", c.DisplayPosition())
	}
	c.RecordMeasurement(Size{Width: 80})
	c.RecordContainerWidth(300)
	if last, _ := vp.Last(); last != (drifttest.ScrollCommand{Offset: 700, Animated: false}) {
		t.Errorf("centering scroll = %+v, want instant to 700", last)
	}
}

func TestRender_RecoversFromContentPanic(t *testing.T) {
	var panics int
	old := errors.DefaultHandler
	h := &countingHandler{panics: &panics}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(old) })

	c := New(Config[card, string]{
		Items: cards(2),
		Content: func(item card) string {
			if item.ID == 1 {
				panic("bad card")
			}
			return item.Title
		},
	})
	views := c.Render()
	want := []string{"Card 0", "", "Card 0", "", "Card 0", ""}
	if len(views) != len(want) {
		t.Fatalf("got %d views", len(views))
	}
	for i := range want {
		if views[i] != want[i] {
			t.Errorf("view %d = %q, want %q", i, views[i], want[i])
		}
	}
	if panics != 3 {
		t.Errorf("reported %d panics, want 3", panics)
	}
	for _, kind := range h.kinds {
		if kind != errors.KindCallback {
			t.Errorf("panic kind = %v, want callback", kind)
		}
	}
}

func TestDispose_DetachesSource(t *testing.T) {
	src := &stubSource{}
	c, _ := newReady(t, Config[card, string]{Items: cards(3)})
	c.Attach(&drifttest.Viewport{}, src)
	if src.subscribers != 1 {
		t.Fatalf("subscribers = %d", src.subscribers)
	}
	c.Dispose()
	c.Dispose()
	if src.subscribers != 0 {
		t.Errorf("subscribers after dispose = %d", src.subscribers)
	}
	before := c.DisplayPosition()
	c.Select(before + 1)
	c.HandlePhase(scrollphase.Event{To: scrollphase.Idle})
	if c.DisplayPosition() != before {
		t.Error("disposed carousel must ignore input")
	}
}

func TestAttach_RoutesSourceEvents(t *testing.T) {
	src := &stubSource{}
	c, _ := newReady(t, Config[card, string]{Items: cards(3)})
	c.Attach(&drifttest.Viewport{}, src)
	c.Attach(&drifttest.Viewport{}, src)
	if src.subscribers != 1 {
		t.Fatalf("re-attach should replace the subscription, have %d", src.subscribers)
	}

	c.Snap().ResolvedPage = 4
	src.emit(scrollphase.Event{From: scrollphase.Dragging, To: scrollphase.Decelerating})
	if c.SelectedIndex() != 1 {
		t.Errorf("selected = %d, want 1", c.SelectedIndex())
	}
}

func TestAutoAdvance_DragRestartsCountdown(t *testing.T) {
	clk := drifttest.NewFakeClock()
	dispatched := make(chan func(), 8)

	c, vp := newReady(t, Config[card, string]{
		Items:              cards(5),
		AutoScrollInterval: 3 * time.Second,
		Clock:              clk,
		Dispatcher:         func(fn func()) { dispatched <- fn },
	})
	vp.Reset()
	if !c.AutoAdvance().Armed() {
		t.Fatal("countdown should be armed once ready and idle")
	}

	clk.Advance(time.Second)
	c.HandlePhase(scrollphase.Event{From: scrollphase.Idle, To: scrollphase.Dragging})
	if c.AutoAdvance().Armed() {
		t.Fatal("dragging must cancel the countdown")
	}
	c.HandlePhase(scrollphase.Event{From: scrollphase.Dragging, To: scrollphase.Decelerating})
	c.HandlePhase(scrollphase.Event{From: scrollphase.Decelerating, To: scrollphase.Idle})

	clk.Advance(2 * time.Second) // t=3s
	drain(t, dispatched, 50*time.Millisecond)
	if c.AutoAdvance().Fired() != 0 {
		t.Fatalf("advance fired at t=3s")
	}
	if c.DisplayPosition() != 5 {
		t.Fatalf("display moved to %d before t=4s", c.DisplayPosition())
	}

	clk.Advance(time.Second) // t=4s
	waitFor(t, dispatched, time.Second)
	if c.AutoAdvance().Fired() != 1 {
		t.Fatalf("fired = %d, want 1 at t=4s", c.AutoAdvance().Fired())
	}
	if c.DisplayPosition() != 6 || c.SelectedIndex() != 1 {
		t.Errorf("display=%d selected=%d, want 6/1", c.DisplayPosition(), c.SelectedIndex())
	}
	if last, _ := vp.Last(); last != (drifttest.ScrollCommand{Offset: 600, Animated: true}) {
		t.Errorf("auto-advance should animate like a tap, got %+v", last)
	}
	if !c.AutoAdvance().Armed() {
		t.Error("countdown should re-arm after firing")
	}
}

func TestAutoAdvance_SupersededFireIsDropped(t *testing.T) {
	clk := drifttest.NewFakeClock()
	dispatched := make(chan func(), 8)
	var advanced int
	a := NewAutoAdvance(t.Context(), time.Second, clk, func(fn func()) { dispatched <- fn }, func() { advanced++ })

	a.Restart(scrollphase.Idle, true)
	clk.Advance(time.Second)
	var stale func()
	select {
	case stale = <-dispatched:
	case <-time.After(time.Second):
		t.Fatal("countdown did not dispatch")
	}
	// A phase change lands between the timer firing and the UI thread
	// running the dispatched effect.
	a.Restart(scrollphase.Dragging, true)
	stale()
	if advanced != 0 {
		t.Errorf("superseded fire applied its effect")
	}
}

func TestAutoAdvance_DisabledAndNotReady(t *testing.T) {
	clk := drifttest.NewFakeClock()
	a := NewAutoAdvance(t.Context(), 0, clk, nil, func() {})
	a.Restart(scrollphase.Idle, true)
	if a.Enabled() || a.Armed() || clk.PendingTimers() != 0 {
		t.Error("zero interval must never arm")
	}

	b := NewAutoAdvance(t.Context(), time.Second, clk, nil, func() {})
	b.Restart(scrollphase.Idle, false)
	if b.Armed() {
		t.Error("must not arm before geometry is ready")
	}
}

func TestDispose_CancelsCountdown(t *testing.T) {
	clk := drifttest.NewFakeClock()
	dispatched := make(chan func(), 8)
	c, _ := newReady(t, Config[card, string]{
		Items:              cards(3),
		AutoScrollInterval: time.Second,
		Clock:              clk,
		Dispatcher:         func(fn func()) { dispatched <- fn },
	})
	c.Dispose()
	if c.AutoAdvance().Armed() {
		t.Error("dispose should cancel the countdown")
	}
	clk.Advance(2 * time.Second)
	drain(t, dispatched, 50*time.Millisecond)
	if c.AutoAdvance().Fired() != 0 {
		t.Error("countdown fired after dispose")
	}
}

func TestAutoAdvance_WithoutDispatcherWaitsForPump(t *testing.T) {
	clk := drifttest.NewFakeClock()
	c, vp := newReady(t, Config[card, string]{
		Items:              cards(5),
		AutoScrollInterval: time.Second,
		Clock:              clk,
	})
	vp.Reset()

	clk.Advance(time.Second)
	deadline := time.Now().Add(time.Second)
	for len(c.scheduler.queue) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("countdown did not queue its fire")
		}
		time.Sleep(time.Millisecond)
	}
	if c.DisplayPosition() != 5 || c.AutoAdvance().Fired() != 0 || len(vp.Commands) != 0 {
		t.Fatal("fire must not apply before the UI thread pumps it")
	}

	c.Pump()
	if c.AutoAdvance().Fired() != 1 || c.DisplayPosition() != 6 {
		t.Errorf("fired=%d display=%d, want 1/6", c.AutoAdvance().Fired(), c.DisplayPosition())
	}
	if !c.AutoAdvance().Armed() {
		t.Error("countdown should re-arm after a pumped fire")
	}
}

// Run with -race: with the default configuration every mutation stays on
// the goroutine that drives the carousel.
func TestAutoAdvance_DefaultConfigStaysOnCallerGoroutine(t *testing.T) {
	c, _ := newReady(t, Config[card, string]{
		Items:              cards(4),
		AutoScrollInterval: time.Millisecond,
	})

	for range 200 {
		c.HandlePhase(scrollphase.Event{From: scrollphase.Idle, To: scrollphase.Dragging})
		c.HandlePhase(scrollphase.Event{From: scrollphase.Dragging, To: scrollphase.Idle})
		_ = c.DisplayPosition()
		c.Pump()
		time.Sleep(50 * time.Microsecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.AutoAdvance().Fired() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("auto-advance never fired through Pump")
		}
		c.Pump()
		time.Sleep(time.Millisecond)
	}
	if c.SelectedIndex() != c.DisplayPosition()%4 {
		t.Errorf("selected %d out of step with display %d", c.SelectedIndex(), c.DisplayPosition())
	}
}

func drain(t *testing.T, ch chan func(), wait time.Duration) {
	t.Helper()
	deadline := time.After(wait)
	for {
		select {
		case fn := <-ch:
			fn()
		case <-deadline:
			return
		}
	}
}

func waitFor(t *testing.T, ch chan func(), wait time.Duration) {
	t.Helper()
	select {
	case fn := <-ch:
		fn()
	case <-time.After(wait):
		t.Fatal("timed out waiting for dispatched fire")
	}
}

type stubSource struct {
	subscribers int
	fns         map[int]func(scrollphase.Event)
	nextID      int
}

func (s *stubSource) Subscribe(fn func(scrollphase.Event)) func() {
	if s.fns == nil {
		s.fns = make(map[int]func(scrollphase.Event))
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn
	s.subscribers++
	return func() {
		delete(s.fns, id)
		s.subscribers--
	}
}

func (s *stubSource) Sync() {}

func (s *stubSource) emit(e scrollphase.Event) {
	for _, fn := range s.fns {
		fn(e)
	}
}

type countingHandler struct {
	panics *int
	kinds  []errors.ErrorKind
}

func (h *countingHandler) HandleError(*errors.CarouselError) {}
func (h *countingHandler) HandlePanic(e *errors.PanicError) {
	*h.panics++
	h.kinds = append(h.kinds, e.Kind)
}
