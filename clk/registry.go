package clk

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"clktree-go/errcode"
)

// Provider lazily produces a registered clock. A provider may fail
// with errcode.ProbeDefer while its hardware dependencies are still
// coming up; the consumer retries at its own cadence.
type Provider func() (*Clock, error)

// Registry holds the clock tree.
type Registry struct {
	mu        sync.Mutex
	clocks    map[string]*Clock
	providers map[string]Provider

	subMu sync.Mutex
	subs  []*Subscription
}

func NewRegistry() *Registry {
	return &Registry{
		clocks:    map[string]*Clock{},
		providers: map[string]Provider{},
	}
}

// Register adds a clock under init.Name. Duplicate names are a
// registration conflict; more than one parent is not supported.
func (r *Registry) Register(init Init) (*Clock, error) {
	if init.Name == "" || init.Ops == nil {
		return nil, &errcode.E{C: errcode.InvalidDescription, Op: "clk.Register", Msg: "missing name or ops"}
	}
	if len(init.ParentNames) > 1 {
		return nil, &errcode.E{C: errcode.InvalidDescription, Op: "clk.Register", Msg: init.Name + ": at most one parent"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.clocks[init.Name]; dup {
		return nil, &errcode.E{C: errcode.RegistrationConflict, Op: "clk.Register", Msg: init.Name}
	}
	c := &Clock{
		reg:      r,
		name:     init.Name,
		ops:      init.Ops,
		flags:    init.Flags,
		parents:  init.ParentNames,
		teardown: init.Teardown,
	}
	r.clocks[init.Name] = c
	return c, nil
}

// Unregister removes a clock and runs its teardown hook, releasing the
// hardware the ops held. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	c := r.clocks[name]
	delete(r.clocks, name)
	r.mu.Unlock()
	if c != nil && c.teardown != nil {
		c.teardown()
	}
}

// AddProvider installs a lazy provider for a clock name whose
// registration is deferred to first use.
func (r *Registry) AddProvider(name string, p Provider) error {
	if name == "" || p == nil {
		return &errcode.E{C: errcode.InvalidDescription, Op: "clk.AddProvider", Msg: "missing name or provider"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.clocks[name]; dup {
		return &errcode.E{C: errcode.RegistrationConflict, Op: "clk.AddProvider", Msg: name + " already registered"}
	}
	if _, dup := r.providers[name]; dup {
		return &errcode.E{C: errcode.RegistrationConflict, Op: "clk.AddProvider", Msg: name + " already has a provider"}
	}
	r.providers[name] = p
	return nil
}

// Get returns the named clock, invoking its provider when registration
// was deferred. Provider failures, probe deferrals included, pass
// through untouched.
func (r *Registry) Get(name string) (*Clock, error) {
	r.mu.Lock()
	if c, ok := r.clocks[name]; ok {
		r.mu.Unlock()
		return c, nil
	}
	p, ok := r.providers[name]
	r.mu.Unlock()
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownClock, Op: "clk.Get", Msg: name}
	}
	return p()
}

// Lookup returns an already-registered clock without invoking
// providers.
func (r *Registry) Lookup(name string) (*Clock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clocks[name]
	return c, ok
}

// Names lists registered clocks in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := maps.Keys(r.clocks)
	slices.Sort(names)
	return names
}

// ProviderNames lists clocks whose registration is still deferred.
func (r *Registry) ProviderNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := maps.Keys(r.providers)
	slices.Sort(names)
	return names
}
