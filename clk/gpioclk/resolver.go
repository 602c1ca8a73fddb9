package gpioclk

import (
	"errors"
	"log/slog"
	"sync"

	"clktree-go/clk"
	"clktree-go/errcode"
	"clktree-go/hwdesc"
)

// CompatibleTag is the description-type tag this driver binds to.
const CompatibleTag = "gpio-clock"

// DeferredResolver performs the one-time construction of a gpio gate
// the first time a consumer asks for it. Registration cannot run at
// scan time because the gpio provider may not be up yet, so Resolve is
// callable repeatedly and concurrently: the whole check-resolve-cache
// sequence runs under an internal guard, and at most one resolution
// ever succeeds.
type DeferredResolver struct {
	reg       *clk.Registry
	providers *hwdesc.ProviderRegistry
	node      *hwdesc.Node
	log       *slog.Logger

	mu       sync.Mutex
	resolved *clk.Clock
}

func NewDeferredResolver(reg *clk.Registry, providers *hwdesc.ProviderRegistry, node *hwdesc.Node, log *slog.Logger) *DeferredResolver {
	if log == nil {
		log = slog.Default()
	}
	return &DeferredResolver{reg: reg, providers: providers, node: node, log: log}
}

// Resolve returns the registered clock for the description, building
// and registering it on first success. Once a resolution succeeds the
// cached handle is returned forever; any failure leaves the resolver
// unresolved, so a later call retries from scratch. A probe deferral
// is an expected bring-up condition and is not logged as an error.
func (d *DeferredResolver) Resolve() (*clk.Clock, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.resolved != nil {
		return d.resolved, nil
	}

	ref, err := d.providers.LookupGPIO(d.node)
	if err != nil {
		if errors.Is(err, errcode.ProbeDefer) {
			d.log.Debug("gpio provider not ready, deferring", "clock", d.node.Name)
		} else {
			d.log.Error("bad gpio clock description", "clock", d.node.Name, "err", err)
		}
		return nil, err
	}

	parent, _ := d.node.ParentName(0)
	c, err := Register(d.reg, Config{
		Name:      d.node.Name,
		Parent:    parent,
		Chip:      ref.Chip,
		Line:      ref.Line,
		ActiveLow: ref.ActiveLow,
	})
	if err != nil {
		return nil, err
	}

	d.resolved = c
	return c, nil
}

func init() {
	clk.RegisterSetup(CompatibleTag, Setup)
}

// Setup installs a deferred provider for one gpio clock description.
func Setup(in clk.SetupInput) error {
	d := NewDeferredResolver(in.Registry, in.Providers, in.Node, in.Log)
	return in.Registry.AddProvider(in.Node.Name, d.Resolve)
}
