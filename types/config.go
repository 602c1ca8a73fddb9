package types

// TreeConfig is the on-disk clock tree description consumed at
// bring-up, the structured stand-in for a device tree fragment.
type TreeConfig struct {
	Providers []ProviderConfig `yaml:"providers,omitempty"`
	Clocks    []ClockNode      `yaml:"clocks"`
}

// ProviderConfig describes one gpio chip backing clock control lines.
type ProviderConfig struct {
	Name   string   `yaml:"name"`
	Device string   `yaml:"device,omitempty"` // kernel chip, e.g. "gpiochip0"
	Lines  []string `yaml:"lines,omitempty"`  // simulated chip line names
}

// ClockNode describes one clock instance's wiring.
type ClockNode struct {
	Name       string   `yaml:"name"`
	Compatible string   `yaml:"compatible"` // description-type tag, e.g. "gpio-clock"
	EnableGPIO *GPIORef `yaml:"enable-gpios,omitempty"`
	Rate       uint64   `yaml:"rate,omitempty"`   // Hz, fixed-rate clocks only
	Parents    []string `yaml:"clocks,omitempty"` // parent clock names
}

// GPIORef names a gpio line on a provider, plus its polarity.
type GPIORef struct {
	Provider  string `yaml:"provider"`
	Line      string `yaml:"line"`
	ActiveLow bool   `yaml:"active-low,omitempty"`
}
