//go:build linux

package main

import (
	"clktree-go/gpio"
	"clktree-go/gpio/chardev"
	"clktree-go/gpio/gpiosim"
	"clktree-go/types"
)

// newChip builds the gpio backend for one provider stanza: a kernel
// character device when one is named, an in-memory simulator otherwise.
func newChip(pc types.ProviderConfig) (gpio.Chip, error) {
	if pc.Device != "" {
		return chardev.New(pc.Device), nil
	}
	return gpiosim.New(pc.Lines...), nil
}
