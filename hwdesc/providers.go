package hwdesc

import (
	"sync"

	"clktree-go/errcode"
	"clktree-go/gpio"
)

// ProviderRegistry maps provider names to gpio chips. A lookup for a
// provider that has not arrived yet is a probe deferral, not a hard
// failure.
type ProviderRegistry struct {
	mu    sync.RWMutex
	chips map[string]gpio.Chip
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{chips: map[string]gpio.Chip{}}
}

// Register installs a chip under a provider name.
func (r *ProviderRegistry) Register(name string, c gpio.Chip) error {
	if name == "" || c == nil {
		return &errcode.E{C: errcode.InvalidDescription, Op: "hwdesc.Register", Msg: "empty provider name or nil chip"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.chips[name]; dup {
		return &errcode.E{C: errcode.RegistrationConflict, Op: "hwdesc.Register", Msg: "provider " + name + " already registered"}
	}
	r.chips[name] = c
	return nil
}

// Lookup returns the chip registered under name.
func (r *ProviderRegistry) Lookup(name string) (gpio.Chip, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chips[name]
	return c, ok
}

// GPIO is a resolved gpio reference.
type GPIO struct {
	Chip      gpio.Chip
	Line      string
	ActiveLow bool
}

// LookupGPIO resolves a node's enable-gpios reference against the
// registered providers. A missing provider yields errcode.ProbeDefer;
// a missing or incomplete reference yields errcode.InvalidDescription.
func (r *ProviderRegistry) LookupGPIO(n *Node) (GPIO, error) {
	ref := n.EnableGPIO
	if ref == nil || ref.Provider == "" || ref.Line == "" {
		return GPIO{}, &errcode.E{C: errcode.InvalidDescription, Op: "hwdesc.LookupGPIO", Msg: "node " + n.Name + ": missing enable-gpios"}
	}
	chip, ok := r.Lookup(ref.Provider)
	if !ok {
		return GPIO{}, &errcode.E{C: errcode.ProbeDefer, Op: "hwdesc.LookupGPIO", Msg: "provider " + ref.Provider + " not registered"}
	}
	return GPIO{Chip: chip, Line: ref.Line, ActiveLow: ref.ActiveLow}, nil
}
