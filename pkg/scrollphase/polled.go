package scrollphase

// Polled derives phase transitions by sampling host flags. It is used on
// hosts that cannot push notifications. Transitions are only observed at
// Sync granularity, so a drag that starts and ends between two frames is
// invisible.
type Polled struct {
	state     ScrollState
	last      Phase
	listeners map[int]func(Event)
	nextID    int
}

// NewPolled starts observing state. The current host phase is taken as the
// baseline so no spurious transition is emitted on the first Sync.
func NewPolled(state ScrollState) *Polled {
	return &Polled{
		state:     state,
		last:      Derive(state),
		listeners: make(map[int]func(Event)),
	}
}

// Subscribe registers fn for derived transitions.
func (p *Polled) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		delete(p.listeners, id)
	}
}

// Sync samples the host and emits an event if the phase changed since the
// previous sample.
func (p *Polled) Sync() {
	if p.state == nil {
		return
	}
	current := Derive(p.state)
	if current == p.last {
		return
	}
	event := Event{From: p.last, To: current, Offset: p.state.Offset()}
	p.last = current
	for _, fn := range p.listeners {
		fn(event)
	}
}

// Phase returns the last sampled phase.
func (p *Polled) Phase() Phase {
	return p.last
}
