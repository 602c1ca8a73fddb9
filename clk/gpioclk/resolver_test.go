package gpioclk

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"clktree-go/clk"
	"clktree-go/errcode"
	"clktree-go/gpio"
	"clktree-go/gpio/gpiosim"
	"clktree-go/hwdesc"
	"clktree-go/types"
)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testNode(provider, line string) *hwdesc.Node {
	return &hwdesc.Node{
		Name:       "cam-mclk",
		Compatible: CompatibleTag,
		EnableGPIO: &types.GPIORef{Provider: provider, Line: line, ActiveLow: true},
	}
}

func TestResolveCachesHandle(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	chip := gpiosim.New("42")
	if err := prov.Register("sim0", chip); err != nil {
		t.Fatal(err)
	}
	d := NewDeferredResolver(reg, prov, testNode("sim0", "42"), quietLog())

	c1, err := d.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	c2, err := d.Resolve()
	if err != nil || c2 != c1 {
		t.Fatalf("second resolve: %v, %p vs %p", err, c1, c2)
	}
	if got := chip.Stats().Requests; got != 1 {
		t.Fatalf("line requested %d times", got)
	}
}

func TestConcurrentResolve(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	chip := gpiosim.New("42")
	if err := prov.Register("sim0", chip); err != nil {
		t.Fatal(err)
	}
	d := NewDeferredResolver(reg, prov, testNode("sim0", "42"), quietLog())

	const callers = 50
	var wg sync.WaitGroup
	handles := make([]*clk.Clock, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = d.Resolve()
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Fatalf("caller %d got a different handle", i)
		}
	}
	if got := chip.Stats().Requests; got != 1 {
		t.Fatalf("line requested %d times, want 1", got)
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "cam-mclk" {
		t.Fatalf("registrations: %v", names)
	}
}

func TestResolveDefersUntilProviderReady(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	chip := gpiosim.New("42")
	d := NewDeferredResolver(reg, prov, testNode("sim0", "42"), quietLog())

	// Attempt 1: provider not up yet.
	if _, err := d.Resolve(); !errors.Is(err, errcode.ProbeDefer) {
		t.Fatalf("expected probe_defer, got %v", err)
	}
	if got := chip.Stats().Requests; got != 0 {
		t.Fatal("no gpio may be requested before the description resolves")
	}

	// Attempt 2: provider registered in the meantime.
	if err := prov.Register("sim0", chip); err != nil {
		t.Fatal(err)
	}
	c, err := d.Resolve()
	if err != nil {
		t.Fatalf("resolve after provider arrival: %v", err)
	}
	if c == nil || chip.Stats().Requests != 1 {
		t.Fatalf("resolution did not complete cleanly: %+v", chip.Stats())
	}
}

func TestResolveInvalidDescription(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	d := NewDeferredResolver(reg, prov, &hwdesc.Node{Name: "broken", Compatible: CompatibleTag}, quietLog())

	if _, err := d.Resolve(); !errors.Is(err, errcode.InvalidDescription) {
		t.Fatalf("expected invalid_description, got %v", err)
	}
}

func TestResolveRetriesAfterConflictClears(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	chip := gpiosim.New("42")
	if err := prov.Register("sim0", chip); err != nil {
		t.Fatal(err)
	}
	// Occupy the clock name so registration collides.
	if _, err := reg.Register(clk.Init{Name: "cam-mclk", Ops: noopOps{}}); err != nil {
		t.Fatal(err)
	}
	d := NewDeferredResolver(reg, prov, testNode("sim0", "42"), quietLog())

	if _, err := d.Resolve(); !errors.Is(err, errcode.RegistrationConflict) {
		t.Fatalf("expected registration_conflict, got %v", err)
	}
	if chip.Claimed("42") {
		t.Fatal("line leaked by failed resolution")
	}

	// Conflict fixed; the resolver retries from scratch and succeeds.
	reg.Unregister("cam-mclk")
	c, err := d.Resolve()
	if err != nil {
		t.Fatalf("resolve after conflict cleared: %v", err)
	}
	if !chip.Claimed("42") || c == nil {
		t.Fatal("retry did not construct the gate")
	}
	s := chip.Stats()
	if s.Requests != 2 || s.Releases != 1 {
		t.Fatalf("unexpected line accounting: %+v", s)
	}
}

func TestResolveLineUnavailable(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	chip := gpiosim.New("42")
	if err := prov.Register("sim0", chip); err != nil {
		t.Fatal(err)
	}
	if _, err := chip.RequestOutput("42", "someone-else", gpio.Low); err != nil {
		t.Fatal(err)
	}
	d := NewDeferredResolver(reg, prov, testNode("sim0", "42"), quietLog())

	if _, err := d.Resolve(); !errors.Is(err, errcode.ResourceUnavailable) {
		t.Fatalf("expected resource_unavailable, got %v", err)
	}
	if _, ok := reg.Lookup("cam-mclk"); ok {
		t.Fatal("clock registered despite gpio failure")
	}
}

// End-to-end: scan a description, consume the clock through the
// registry, check the gate actually gates and inherits the parent
// rate.
func TestSetupThroughScan(t *testing.T) {
	reg := clk.NewRegistry()
	prov := hwdesc.NewProviderRegistry()
	chip := gpiosim.New("42")

	nodes := []*hwdesc.Node{
		testNode("sim0", "42"),
	}
	nodes[0].Parents = []string{"osc24m"}
	clk.Scan(reg, prov, nodes, quietLog())

	// Scan installed a provider, not a clock.
	if _, ok := reg.Lookup("cam-mclk"); ok {
		t.Fatal("gpio clock registered eagerly")
	}
	if _, err := reg.Get("cam-mclk"); !errors.Is(err, errcode.ProbeDefer) {
		t.Fatalf("expected probe_defer before provider arrival, got %v", err)
	}

	if err := prov.Register("sim0", chip); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Register(clk.Init{Name: "osc24m", Ops: fixedRate(24_000_000)}); err != nil {
		t.Fatal(err)
	}

	c, err := reg.Get("cam-mclk")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := c.Rate(); got != 24_000_000 {
		t.Fatalf("rate = %d, want inherited 24MHz", got)
	}
	if err := c.Enable(); err != nil {
		t.Fatal(err)
	}
	if lvl, _ := chip.LevelOf("42"); lvl != gpio.Low {
		t.Fatalf("active-low enable should drive low, got %v", lvl)
	}
	c.Disable()
	if lvl, _ := chip.LevelOf("42"); lvl != gpio.High {
		t.Fatalf("disable should drive high, got %v", lvl)
	}
}

type fixedRate uint64

func (fixedRate) Enable()                           {}
func (fixedRate) Disable()                          {}
func (fixedRate) IsEnabled() bool                   { return true }
func (r fixedRate) RecalcRate(parent uint64) uint64 { return uint64(r) }
