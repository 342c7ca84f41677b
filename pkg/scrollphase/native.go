package scrollphase

// Native forwards phase notifications pushed by the host.
type Native struct {
	host Notifier
}

// NewNative wraps a host that reports phase changes itself.
func NewNative(host Notifier) *Native {
	return &Native{host: host}
}

// Subscribe installs a host hook for fn.
func (n *Native) Subscribe(fn func(Event)) func() {
	if fn == nil || n.host == nil {
		return func() {}
	}
	remove := n.host.OnPhaseChange(func(from, to Phase, offset float64) {
		fn(Event{From: from, To: to, Offset: offset})
	})
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		remove()
	}
}

// Sync is a no-op; the host pushes transitions as they happen.
func (n *Native) Sync() {}
