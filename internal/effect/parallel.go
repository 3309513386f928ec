// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package effect

// Parallel runs all of its child nodes concurrently (in tick terms: every
// non-finished child is ticked once per Tick call) and is Done once every
// child is.
type Parallel struct {
	nodes []Node
}

func NewParallel(nodes []Node) *Parallel {
	return &Parallel{nodes: nodes}
}

func (p *Parallel) Tick(w ChannelWriter) error {
	for _, n := range p.nodes {
		if n.Done() {
			continue
		}
		if err := n.Tick(w); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parallel) Done() bool {
	for _, n := range p.nodes {
		if !n.Done() {
			return false
		}
	}
	return true
}
