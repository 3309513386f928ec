// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package effect

// Delay holds for a fixed number of ticks without writing any channel.
type Delay struct {
	ticksTotal int
	ticksDone  int
}

func NewDelay(ticks int) *Delay {
	return &Delay{ticksTotal: ticks}
}

func (d *Delay) Tick(w ChannelWriter) error {
	if d.Done() {
		return nil
	}
	d.ticksDone++
	return nil
}

func (d *Delay) Done() bool {
	return d.ticksDone >= d.ticksTotal
}
