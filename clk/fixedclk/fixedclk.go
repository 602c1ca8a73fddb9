// Package fixedclk registers always-on root clocks with a fixed rate.
// Tree descriptions use it for oscillators that gpio gates hang off.
package fixedclk

import (
	"clktree-go/clk"
	"clktree-go/errcode"
)

// CompatibleTag is the description-type tag this driver binds to.
const CompatibleTag = "fixed-clock"

type fixed struct {
	rate uint64
}

func (f *fixed) Enable()                         {}
func (f *fixed) Disable()                        {}
func (f *fixed) IsEnabled() bool                 { return true }
func (f *fixed) RecalcRate(parent uint64) uint64 { return f.rate }

// Register adds a fixed-rate clock to the registry.
func Register(reg *clk.Registry, name string, rate uint64) (*clk.Clock, error) {
	return reg.Register(clk.Init{Name: name, Ops: &fixed{rate: rate}})
}

func init() {
	clk.RegisterSetup(CompatibleTag, setup)
}

// Fixed clocks have no hardware dependency, so registration happens
// eagerly at scan time; nothing to defer.
func setup(in clk.SetupInput) error {
	if in.Node.Rate == 0 {
		return &errcode.E{C: errcode.InvalidDescription, Op: "fixedclk.setup", Msg: in.Node.Name + ": missing rate"}
	}
	_, err := Register(in.Registry, in.Node.Name, in.Node.Rate)
	return err
}
