// Package gpiosim is an in-memory gpio chip for tests and the clksim
// command. It tracks exclusive claims, lets a test drive a line from
// outside any claim, and counts collaborator calls so tests can assert
// on them.
package gpiosim

import (
	"sync"

	"clktree-go/errcode"
	"clktree-go/gpio"
)

// Stats counts collaborator calls since construction.
type Stats struct {
	Requests uint64 // successful output claims
	Denied   uint64 // rejected claims (unknown or busy line)
	Releases uint64
	Sets     uint64
	Gets     uint64
}

type lineState struct {
	level   gpio.Level
	claimed string // consumer, "" when free
}

// Chip simulates a gpio chip with a fixed set of named lines.
type Chip struct {
	mu    sync.Mutex
	lines map[string]*lineState
	stats Stats
}

// New builds a chip exposing the given line names, all free and low.
func New(lines ...string) *Chip {
	c := &Chip{lines: make(map[string]*lineState, len(lines))}
	for _, n := range lines {
		c.lines[n] = &lineState{}
	}
	return c
}

func (c *Chip) RequestOutput(name, consumer string, initial gpio.Level) (gpio.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.lines[name]
	if !ok {
		c.stats.Denied++
		return nil, &errcode.E{C: errcode.ResourceUnavailable, Op: "gpiosim.RequestOutput", Msg: "unknown line " + name}
	}
	if st.claimed != "" {
		c.stats.Denied++
		return nil, &errcode.E{C: errcode.ResourceUnavailable, Op: "gpiosim.RequestOutput", Msg: "line " + name + " claimed by " + st.claimed}
	}
	if consumer == "" {
		consumer = "?"
	}
	st.claimed = consumer
	st.level = initial
	c.stats.Requests++
	return &Line{chip: c, name: name}, nil
}

// SetLevel drives a line from outside any claim, modeling an external
// agent sharing the wire.
func (c *Chip) SetLevel(name string, v gpio.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.lines[name]
	if !ok {
		return &errcode.E{C: errcode.ResourceUnavailable, Op: "gpiosim.SetLevel", Msg: "unknown line " + name}
	}
	st.level = v
	return nil
}

// LevelOf reports the current level of a line without claiming it.
func (c *Chip) LevelOf(name string) (gpio.Level, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.lines[name]
	if !ok {
		return gpio.Low, &errcode.E{C: errcode.ResourceUnavailable, Op: "gpiosim.LevelOf", Msg: "unknown line " + name}
	}
	return st.level, nil
}

// Claimed reports whether a line is currently owned.
func (c *Chip) Claimed(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.lines[name]
	return ok && st.claimed != ""
}

func (c *Chip) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Line is a claimed simulated output line.
type Line struct {
	chip   *Chip
	name   string
	closed bool
}

func (l *Line) Name() string { return l.name }

func (l *Line) Set(v gpio.Level) {
	l.chip.mu.Lock()
	defer l.chip.mu.Unlock()
	l.chip.lines[l.name].level = v
	l.chip.stats.Sets++
}

func (l *Line) Get() gpio.Level {
	l.chip.mu.Lock()
	defer l.chip.mu.Unlock()
	l.chip.stats.Gets++
	return l.chip.lines[l.name].level
}

// Close releases the claim. Closing twice is a caller bug and reported
// as such rather than silently recounted.
func (l *Line) Close() error {
	l.chip.mu.Lock()
	defer l.chip.mu.Unlock()
	if l.closed {
		return &errcode.E{C: errcode.Error, Op: "gpiosim.Close", Msg: "line " + l.name + " closed twice"}
	}
	l.closed = true
	l.chip.lines[l.name].claimed = ""
	l.chip.stats.Releases++
	return nil
}
