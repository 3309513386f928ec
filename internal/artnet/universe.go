// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package artnet

import (
	"fmt"

	"dmxctl/internal/model"
)

// sendUnmodifiedEvery is SEND_UNMODIFIED_UNIVERSE_EVERY from spec §4.2: at
// 50ms ticks, 80 ticks is 4 seconds.
const sendUnmodifiedEvery = 80

// universe is one DMX-512 output frame plus the transmission bookkeeping
// spec §3 assigns it: a sequence byte, a modified flag, and the idle-tick
// counter that forces a keepalive send every sendUnmodifiedEvery ticks.
type universe struct {
	id  string
	def model.UniverseDefinition

	data             []byte
	sequence         byte
	modified         bool
	nonModifiedTicks int

	controller *controller
}

func newUniverse(id string, def model.UniverseDefinition, ctrl *controller) *universe {
	return &universe{
		id:         id,
		def:        def,
		data:       make([]byte, def.FrameSize()),
		sequence:   1,
		controller: ctrl,
	}
}

// setChannel validates every component index is within the frame and
// writes them atomically (spec §4.2: "all three component bytes are
// written atomically from the caller's perspective").
func (u *universe) setChannel(def model.ChannelDefinition, value model.DimmerValue) error {
	if err := def.Validate(len(u.data)); err != nil {
		return err
	}
	if value.Kind != def.Kind {
		return fmt.Errorf("value kind %s does not match channel definition kind %s", value.Kind, def.Kind)
	}
	for i, idx := range def.Indices() {
		u.data[idx] = value.Values[i]
	}
	u.modified = true
	return nil
}

func (u *universe) getChannel(def model.ChannelDefinition) (model.DimmerValue, error) {
	if err := def.Validate(len(u.data)); err != nil {
		return model.DimmerValue{}, err
	}
	var dv model.DimmerValue
	dv.Kind = def.Kind
	for i, idx := range def.Indices() {
		dv.Values[i] = u.data[idx]
	}
	return dv, nil
}

// buildPacket frames the universe's current frame data into an Art-Net
// ArtDMX packet and advances the sequence byte. Sequence wraps 1..255,
// skipping 0 — 0 is reserved to mean "sequencing disabled" (spec §4.2).
func (u *universe) buildPacket() []byte {
	packet := BuildDMXPacket(u.def.Net, u.def.Subnet, u.def.Universe, u.sequence, 0, u.data)
	u.sequence++
	if u.sequence == 0 {
		u.sequence = 1
	}
	return packet
}
