// Package clk is a small clock tree framework: named clocks with at
// most one parent, refcounted enable propagation, rate inheritance and
// lazy provider-backed registration. Clock implementations attach an
// Ops capability set at registration; the framework serializes
// lifecycle calls per clock, so ops need no internal locking.
package clk

import (
	"sync"

	"clktree-go/errcode"
)

// Ops is the capability set a clock implementation attaches at
// registration. Calls are serialized per clock by the framework and
// are infallible at this layer.
type Ops interface {
	Enable()
	Disable()
	IsEnabled() bool
}

// RateOps is implemented by ops that determine their own rate rather
// than inheriting the parent's.
type RateOps interface {
	RecalcRate(parent uint64) uint64
}

// Flags adjust framework handling of a clock.
type Flags uint32

const (
	FlagIsBasic Flags = 1 << iota
	FlagIgnoreUnused
)

// Init carries everything Register needs.
type Init struct {
	Name        string
	Ops         Ops
	Flags       Flags
	ParentNames []string // zero or one entries
	// Teardown runs once when the clock is unregistered, releasing
	// whatever hardware the ops hold.
	Teardown func()
}

// Clock is a registered clock handle.
type Clock struct {
	reg     *Registry
	name    string
	ops     Ops
	flags   Flags
	parents []string

	mu       sync.Mutex
	enables  int
	teardown func()
}

func (c *Clock) Name() string { return c.name }
func (c *Clock) Flags() Flags { return c.flags }

// Parent returns the parent clock, resolving it by name through the
// registry. Resolution may invoke a deferred provider.
func (c *Clock) Parent() (*Clock, error) {
	if len(c.parents) == 0 {
		return nil, nil
	}
	return c.reg.Get(c.parents[0])
}

// Enable turns the clock on, enabling the parent first. Calls nest:
// the ops fire only on the 0→1 transition.
func (c *Clock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enables > 0 {
		c.enables++
		return nil
	}
	p, err := c.Parent()
	if err != nil {
		return err
	}
	if p != nil {
		if err := p.Enable(); err != nil {
			return err
		}
	}
	c.ops.Enable()
	c.enables = 1
	c.reg.notify(StateEvent{Clock: c.name, Enabled: true})
	return nil
}

// Disable undoes one Enable; the ops fire on the 1→0 transition and
// the parent is released afterwards. Unbalanced calls are ignored.
func (c *Clock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enables == 0 {
		return
	}
	c.enables--
	if c.enables > 0 {
		return
	}
	c.ops.Disable()
	c.reg.notify(StateEvent{Clock: c.name, Enabled: false})
	if p, err := c.Parent(); err == nil && p != nil {
		p.Disable()
	}
}

// IsEnabled queries the ops directly; gated clocks answer from live
// hardware readback, not from the refcount.
func (c *Clock) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ops.IsEnabled()
}

// Rate reports the clock's rate in Hz, inherited unchanged from the
// parent unless the ops recalculate it.
func (c *Clock) Rate() uint64 {
	var parent uint64
	if p, err := c.Parent(); err == nil && p != nil {
		parent = p.Rate()
	}
	if ro, ok := c.ops.(RateOps); ok {
		return ro.RecalcRate(parent)
	}
	return parent
}

// SetRate is unsupported for every clock in this tree; rates are fixed
// or inherited.
func (c *Clock) SetRate(uint64) error {
	return &errcode.E{C: errcode.Unsupported, Op: "clk.SetRate", Msg: c.name}
}
