// Package app is the terminal host for the carousel demo.
//
// It plays the part of the platform scroll view: terminal columns are the
// scroll unit, a [scroll.Position] tracks the offset, mouse drags feed it
// deltas and release velocity, and a 16ms tick drives animation frames and
// polled phase sampling.
package app

import (
	"math"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/go-drift/carousel/cmd/carousel-demo/internal/config"
	"github.com/go-drift/carousel/pkg/animation"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/scroll"
	"github.com/go-drift/carousel/pkg/scrollphase"
)

const (
	frameInterval = 16 * time.Millisecond
	headerHeight  = 2
	// A drag that paused this long before release does not fling.
	flingWindow = 100 * time.Millisecond
)

type frameMsg time.Time

// dispatchMsg carries work from a background goroutine onto the update loop.
type dispatchMsg struct {
	fn func()
}

type press struct {
	startX   int
	lastX    int
	lastAt   time.Time
	velocity float64
	dragging bool
}

// Model is the bubbletea model hosting one carousel.
type Model struct {
	cfg      *config.Resolved
	carousel *carousel.Carousel[config.Item, string]
	position *scroll.Position
	source   scrollphase.Source

	width    int
	height   int
	selected int
	press    *press
	quitting bool

	mu   sync.Mutex
	send func(tea.Msg)
}

// New builds the model and attaches the carousel to its scroll host.
func New(cfg *config.Resolved) (*Model, error) {
	m := &Model{cfg: cfg}
	m.position = scroll.NewPosition(nil)
	m.carousel = carousel.New(carousel.Config[config.Item, string]{
		Items:                 cfg.Items,
		Spacing:               float64(cfg.Spacing),
		AutoScrollInterval:    cfg.AutoScroll,
		SelectedIndex:         cfg.Selected,
		OnSelectedIndexChange: func(index int) { m.selected = index },
		Content:               m.renderCard,
		Dispatcher:            m.dispatch,
	})
	m.selected = m.carousel.SelectedIndex()
	m.position.SetTargetAdjuster(m.carousel)

	source, err := scrollphase.ForRuntime(cfg.RuntimeVersion, m.position)
	if err != nil {
		m.carousel.Dispose()
		return nil, errors.Wrap("app.New", errors.KindPhase, err)
	}
	m.source = source
	m.carousel.Attach(m.position, source)
	m.measure()
	return m, nil
}

// SetMsgSender installs the program's Send so background work can be
// marshalled onto the update loop.
func (m *Model) SetMsgSender(send func(tea.Msg)) {
	m.mu.Lock()
	m.send = send
	m.mu.Unlock()
}

func (m *Model) dispatch(fn func()) {
	m.mu.Lock()
	send := m.send
	m.mu.Unlock()
	if send == nil {
		return
	}
	send(dispatchMsg{fn: fn})
}

// Shutdown releases the carousel and stops any animation.
func (m *Model) Shutdown() {
	m.carousel.Dispose()
	m.position.Dispose()
}

// Init starts the frame loop.
func (m *Model) Init() tea.Cmd {
	return nextFrame()
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles terminal events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.carousel.RecordContainerWidth(float64(msg.Width))

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		animation.StepTickers()
		m.source.Sync()
		return m, nextFrame()

	case dispatchMsg:
		if msg.fn != nil {
			msg.fn()
		}

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft && m.inStrip(msg.Y) {
			m.press = &press{startX: msg.X, lastX: msg.X, lastAt: animation.Now()}
		}

	case tea.MouseMotionMsg:
		if m.press != nil {
			m.drag(m.press, msg.X)
		}

	case tea.MouseReleaseMsg:
		if m.press != nil {
			m.release(msg.X)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		m.Shutdown()
		return tea.Quit
	case "left", "h":
		m.carousel.Select(m.carousel.DisplayPosition() - 1)
	case "right", "l":
		m.carousel.Select(m.carousel.DisplayPosition() + 1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if index := int(key[0] - '1'); index < m.carousel.Len() {
			// The carousel does not echo external writes back.
			m.carousel.SetSelectedIndex(index)
			m.selected = m.carousel.SelectedIndex()
		}
	}
	return nil
}

func (m *Model) drag(p *press, x int) {
	if !p.dragging {
		if x == p.startX {
			return
		}
		p.dragging = true
		m.position.BeginDrag()
	}
	// Moving the pointer left scrolls the strip forward.
	dx := float64(p.lastX - x)
	now := animation.Now()
	if dt := now.Sub(p.lastAt).Seconds(); dt > 0 {
		p.velocity = 0.6*(dx/dt) + 0.4*p.velocity
	}
	m.position.ApplyUserOffset(dx)
	p.lastX = x
	p.lastAt = now
}

func (m *Model) release(x int) {
	p := m.press
	m.press = nil
	if !p.dragging {
		if slot, ok := m.slotAt(x); ok {
			m.carousel.Select(slot)
		}
		return
	}
	if x != p.lastX {
		m.drag(p, x)
	}
	velocity := p.velocity
	if animation.Now().Sub(p.lastAt) > flingWindow {
		velocity = 0
	}
	m.position.EndDrag(velocity)
}

// slotAt maps a screen column to the slot drawn there.
func (m *Model) slotAt(x int) (int, bool) {
	g := m.carousel.Geometry()
	step := int(g.StepWidth())
	if !g.IsReady() || step <= 0 {
		return 0, false
	}
	contentX := int(math.Round(m.position.Offset())) + x - int(math.Round(g.HorizontalInset()))
	if contentX < 0 {
		return 0, false
	}
	slot := contentX / step
	if slot >= len(m.carousel.Slots()) || contentX-slot*step >= int(g.CardSize().Width) {
		return 0, false
	}
	return slot, true
}

func (m *Model) inStrip(y int) bool {
	h := int(m.carousel.Geometry().CardSize().Height)
	return y >= headerHeight && y < headerHeight+h
}

// measure reports the rendered card size once.
func (m *Model) measure() {
	for _, view := range m.carousel.Render() {
		w, h := cardSize(view)
		if w > 0 {
			m.carousel.RecordMeasurement(carousel.Size{Width: float64(w), Height: float64(h)})
			return
		}
	}
}
