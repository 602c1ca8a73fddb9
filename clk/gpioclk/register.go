package gpioclk

import (
	"clktree-go/clk"
	"clktree-go/gpio"
)

// Config carries everything needed to construct and register a gate.
type Config struct {
	Name      string
	Parent    string // "" for none
	Flags     clk.Flags
	Chip      gpio.Chip
	Line      string
	ActiveLow bool
}

// newGate builds the gate record. Swappable in tests to model
// allocation failure.
var newGate = func(line gpio.Line, activeLow bool, name, parent string) (*Gate, error) {
	return &Gate{line: line, activeLow: activeLow, name: name, parent: parent}, nil
}

// Register requests the control gpio, constructs a Gate and registers
// it with the clock registry. Construction crosses three failure
// boundaries; any failure after the line is claimed releases it before
// returning, so no ownership leaks on any path. On success the line is
// released by the clock's teardown hook at Unregister.
func Register(reg *clk.Registry, cfg Config) (*clk.Clock, error) {
	// The line starts at the inactive level so the clock cannot appear
	// enabled before its first explicit Enable.
	initial := gpio.Low
	if cfg.ActiveLow {
		initial = gpio.High
	}
	line, err := cfg.Chip.RequestOutput(cfg.Line, cfg.Name, initial)
	if err != nil {
		return nil, err
	}

	g, err := newGate(line, cfg.ActiveLow, cfg.Name, cfg.Parent)
	if err != nil {
		_ = line.Close()
		return nil, err
	}

	var parents []string
	if cfg.Parent != "" {
		parents = []string{cfg.Parent}
	}
	c, err := reg.Register(clk.Init{
		Name:        cfg.Name,
		Ops:         g,
		Flags:       cfg.Flags | clk.FlagIsBasic,
		ParentNames: parents,
		Teardown:    func() { _ = line.Close() },
	})
	if err != nil {
		_ = line.Close()
		return nil, err
	}
	return c, nil
}
