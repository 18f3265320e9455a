package api

import "sync"

// BusyGauge tracks how many gateway calls are in flight. The lifecycle is
// strictly scoped to each call: Enter before dispatch, Exit on every
// settle path including timeout. An observer is notified on the
// false→true and true→false edges so the UI can drive a single spinner
// over overlapping calls.
type BusyGauge struct {
	mu       sync.Mutex
	inFlight int
	observer func(active bool)
}

// Observe registers the callback fired on activity edges. Only one
// observer is supported; registering replaces the previous one.
func (g *BusyGauge) Observe(fn func(active bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observer = fn
}

// Active reports whether any call is currently in flight.
func (g *BusyGauge) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight > 0
}

func (g *BusyGauge) enter() {
	g.mu.Lock()
	g.inFlight++
	notify := g.inFlight == 1
	fn := g.observer
	g.mu.Unlock()
	if notify && fn != nil {
		fn(true)
	}
}

func (g *BusyGauge) exit() {
	g.mu.Lock()
	g.inFlight--
	notify := g.inFlight == 0
	fn := g.observer
	g.mu.Unlock()
	if notify && fn != nil {
		fn(false)
	}
}
