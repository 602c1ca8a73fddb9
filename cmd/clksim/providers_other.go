//go:build !linux

package main

import (
	"clktree-go/errcode"
	"clktree-go/gpio"
	"clktree-go/gpio/gpiosim"
	"clktree-go/types"
)

// newChip builds the gpio backend for one provider stanza. Character
// device chips are Linux-only; everything else gets the simulator.
func newChip(pc types.ProviderConfig) (gpio.Chip, error) {
	if pc.Device != "" {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "newChip", Msg: "gpio character devices need linux"}
	}
	return gpiosim.New(pc.Lines...), nil
}
