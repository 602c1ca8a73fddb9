// Package gpioclk implements a gpio controlled clock gate.
// Traits of this clock:
//   - enable/disable are functional and drive the control gpio
//   - rate is inherited unchanged from the parent, no SetRate
//   - fixed single parent, no reparenting
package gpioclk

import "clktree-go/gpio"

// Gate owns one gpio output line and a polarity. The clock is on
// exactly when the line sits at the active level implied by the
// polarity.
type Gate struct {
	line      gpio.Line
	activeLow bool
	name      string
	parent    string
}

func (g *Gate) activeLevel() gpio.Level {
	if g.activeLow {
		return gpio.Low
	}
	return gpio.High
}

func (g *Gate) inactiveLevel() gpio.Level {
	return !g.activeLevel()
}

// Enable drives the line to the active level. Idempotent.
func (g *Gate) Enable() {
	g.line.Set(g.activeLevel())
}

// Disable drives the line to the inactive level. Idempotent.
func (g *Gate) Disable() {
	g.line.Set(g.inactiveLevel())
}

// IsEnabled reads the live line level. Enabled state is never cached,
// so the answer stays authoritative even if another agent drives the
// wire.
func (g *Gate) IsEnabled() bool {
	return g.line.Get() == g.activeLevel()
}
