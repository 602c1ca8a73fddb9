// Package hwdesc holds the hardware description consumed by clock
// setups: which gpio line gates a clock, at which polarity, under which
// parent. Nodes are externally owned and read-only after load; the
// provider registry is the one runtime-mutable piece, because gpio
// providers arrive in stages during bring-up.
package hwdesc

import "clktree-go/types"

// Node is one hardware description entry.
type Node struct {
	Name       string
	Compatible string
	EnableGPIO *types.GPIORef
	Rate       uint64
	Parents    []string
}

// ParentName returns the i-th parent clock name.
func (n *Node) ParentName(i int) (string, bool) {
	if i < 0 || i >= len(n.Parents) {
		return "", false
	}
	return n.Parents[i], true
}

// FromConfig converts parsed config entries into description nodes.
func FromConfig(clocks []types.ClockNode) []*Node {
	nodes := make([]*Node, 0, len(clocks))
	for i := range clocks {
		c := &clocks[i]
		nodes = append(nodes, &Node{
			Name:       c.Name,
			Compatible: c.Compatible,
			EnableGPIO: c.EnableGPIO,
			Rate:       c.Rate,
			Parents:    c.Parents,
		})
	}
	return nodes
}
