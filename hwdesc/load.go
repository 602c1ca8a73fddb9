package hwdesc

import (
	"io"

	"gopkg.in/yaml.v3"

	"clktree-go/errcode"
	"clktree-go/types"
)

// Load reads a YAML tree config and returns its clock description
// nodes. Unknown fields are rejected so wiring typos surface at load
// time rather than as silently unresolvable clocks.
func Load(r io.Reader) ([]*Node, error) {
	cfg, err := LoadConfig(r)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg.Clocks), nil
}

// LoadConfig reads the full tree config, provider stanzas included.
func LoadConfig(r io.Reader) (*types.TreeConfig, error) {
	var cfg types.TreeConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, &errcode.E{C: errcode.InvalidDescription, Op: "hwdesc.LoadConfig", Msg: "bad tree config", Err: err}
	}
	return &cfg, nil
}
