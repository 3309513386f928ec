// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

// Package effect implements the runtime (compiled) effect-tree nodes:
// Sequence, Parallel, Delay and Fade. The Array Manager compiles them;
// the Art-Net Manager ticks them once per scheduler tick, and they write
// channel values through a ChannelWriter, which the Art-Net Manager
// implements. Keeping that dependency as a narrow interface here (rather
// than importing internal/artnet directly) avoids a package import cycle
// with internal/artnet, which imports this package.
package effect

import "dmxctl/internal/model"

// ChannelWriter is the subset of the Art-Net Manager's API an effect node
// needs: writing a channel value, and reading one back. Fade uses the
// read side to capture its starting point lazily, on its first tick,
// rather than at compile time (spec §4.3.1) — this lets a fade start from
// wherever the lights happen to be rather than an assumed value.
type ChannelWriter interface {
	SetChannel(universeID string, def model.ChannelDefinition, value model.DimmerValue) error
	GetChannel(universeID string, def model.ChannelDefinition) (model.DimmerValue, error)
}

// Node is a single compiled effect-tree node. Tick advances it by exactly
// one scheduler tick; Done reports whether it has finished and should be
// retired by its parent.
type Node interface {
	Tick(w ChannelWriter) error
	Done() bool
}
