package clk

// StateEvent reports a clock gate transition.
type StateEvent struct {
	Clock   string
	Enabled bool
}

// Subscription receives gate transitions for every clock in the
// registry. Delivery is non-blocking: a full channel drops the event
// rather than stalling the enable path.
type Subscription struct {
	reg *Registry
	ch  chan StateEvent
}

// Subscribe starts delivering state events into a channel with the
// given buffer.
func (r *Registry) Subscribe(buf int) *Subscription {
	if buf <= 0 {
		buf = 16
	}
	s := &Subscription{reg: r, ch: make(chan StateEvent, buf)}
	r.subMu.Lock()
	r.subs = append(r.subs, s)
	r.subMu.Unlock()
	return s
}

func (s *Subscription) Events() <-chan StateEvent { return s.ch }

// Cancel detaches the subscription. The channel is not closed; events
// already queued stay readable.
func (s *Subscription) Cancel() {
	r := s.reg
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for i, sub := range r.subs {
		if sub == s {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(ev StateEvent) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, s := range r.subs {
		select {
		case s.ch <- ev:
		default:
		}
	}
}
