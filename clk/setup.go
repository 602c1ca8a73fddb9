// clk/setup.go
package clk

import (
	"fmt"
	"log/slog"
	"sync"

	"clktree-go/hwdesc"
)

// SetupInput is provided to a description-type setup during the
// discovery scan.
type SetupInput struct {
	Registry  *Registry
	Providers *hwdesc.ProviderRegistry
	Node      *hwdesc.Node
	Log       *slog.Logger
}

// SetupFunc binds one description node into the tree, either by
// registering a clock immediately or by installing a deferred
// provider.
type SetupFunc func(in SetupInput) error

var (
	muSetups sync.RWMutex
	setups   = map[string]SetupFunc{}
)

// RegisterSetup installs a setup for a description-type tag. Drivers
// call it from init; it panics on duplicate registration to catch
// mistakes at start-up.
func RegisterSetup(compatible string, fn SetupFunc) {
	muSetups.Lock()
	defer muSetups.Unlock()
	if compatible == "" {
		panic("clk: empty compatible tag for setup")
	}
	if _, exists := setups[compatible]; exists {
		panic(fmt.Sprintf("clk: setup already registered for %q", compatible))
	}
	setups[compatible] = fn
}

func lookupSetup(compatible string) (SetupFunc, bool) {
	muSetups.RLock()
	defer muSetups.RUnlock()
	fn, ok := setups[compatible]
	return fn, ok
}

// Scan walks description nodes once, dispatching each to the setup
// registered for its compatible tag. Nodes with no matching setup and
// setups that fail are logged and skipped; discovery is best-effort,
// matching the staged nature of bring-up.
func Scan(reg *Registry, prov *hwdesc.ProviderRegistry, nodes []*hwdesc.Node, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	for _, n := range nodes {
		fn, ok := lookupSetup(n.Compatible)
		if !ok {
			log.Warn("no setup for description type", "compatible", n.Compatible, "node", n.Name)
			continue
		}
		if err := fn(SetupInput{Registry: reg, Providers: prov, Node: n, Log: log}); err != nil {
			log.Error("clock setup failed", "node", n.Name, "err", err)
		}
	}
}
