// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package effect

import "dmxctl/internal/model"

// FadeTarget is one channel definition's destination dimmer value for a
// Fade node. The Array Manager resolves Target at compile time from the
// fade's declared target string (scaled by the array's current dimming
// amount unless the node declares no_dimming); the starting value is NOT
// resolved here — Fade reads it back from the universe on its first tick.
type FadeTarget struct {
	UniverseID string
	Def        model.ChannelDefinition
	Target     model.DimmerValue
}

// Fade ramps a set of channel definitions from their current value to a
// target value over a fixed number of ticks, writing every component of a
// channel definition atomically in a single SetChannel call per tick (spec
// §4.2: an RGB or tri-white channel is never observed half-written). A
// single Fade may span several universes — a lights expression's `$uid`
// entries can switch universe mid-expression (spec §4.1).
type Fade struct {
	targets    []FadeTarget
	ticksTotal int
	ticksDone  int
	started    bool
	entries    []fadeEntryState
}

type fadeEntryState struct {
	universeID string
	def        model.ChannelDefinition
	deltas     [3]componentDelta
	n          int
}

// NewFade builds a Fade node. ticks <= 0 is treated as an instantaneous
// jump: the target values are written once on the first Tick and the node
// is immediately Done (spec.md does not define fade semantics for
// non-positive tick counts; this is the chosen behavior).
func NewFade(targets []FadeTarget, ticks int) *Fade {
	return &Fade{targets: targets, ticksTotal: ticks}
}

// start captures the current value of every target channel and builds the
// per-component Bresenham state. Called lazily on the first Tick.
func (f *Fade) start(w ChannelWriter) error {
	effectiveTicks := f.ticksTotal
	if effectiveTicks < 1 {
		effectiveTicks = 1
	}

	allIdentical := true
	for _, tgt := range f.targets {
		startVal, err := w.GetChannel(tgt.UniverseID, tgt.Def)
		if err != nil {
			return err
		}
		n := tgt.Def.Kind.ComponentCount()
		var deltas [3]componentDelta
		for i := 0; i < n; i++ {
			if startVal.Values[i] != tgt.Target.Values[i] {
				allIdentical = false
			}
			deltas[i] = newComponentDelta(startVal.Values[i], tgt.Target.Values[i], effectiveTicks)
		}
		f.entries = append(f.entries, fadeEntryState{universeID: tgt.UniverseID, def: tgt.Def, deltas: deltas, n: n})
	}

	// Testable property 5: a fade whose start equals its target on every
	// component of every channel completes in 0 ticks with no writes.
	if allIdentical {
		f.ticksDone = effectiveTicks
	}
	f.started = true
	return nil
}

func (f *Fade) Tick(w ChannelWriter) error {
	if !f.started {
		if err := f.start(w); err != nil {
			return err
		}
	}
	if f.Done() {
		return nil
	}

	for i := range f.entries {
		e := &f.entries[i]
		var vals [3]uint8
		for c := 0; c < e.n; c++ {
			vals[c] = e.deltas[c].step()
		}
		if err := w.SetChannel(e.universeID, e.def, model.DimmerValue{Kind: e.def.Kind, Values: vals}); err != nil {
			return err
		}
	}
	f.ticksDone++
	return nil
}

func (f *Fade) Done() bool {
	if !f.started {
		return false
	}
	total := f.ticksTotal
	if total < 1 {
		total = 1
	}
	return f.ticksDone >= total
}
