// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package effect

import (
	"reflect"
	"testing"

	"dmxctl/internal/model"
)

// fakeChannelWriter simulates a universe's channel state: GetChannel reads
// whatever was last written (or the preset starting value), and every
// SetChannel call is recorded in order for assertions.
type fakeChannelWriter struct {
	current map[int]model.DimmerValue
	writes  []model.DimmerValue
}

func newFakeChannelWriter() *fakeChannelWriter {
	return &fakeChannelWriter{current: make(map[int]model.DimmerValue)}
}

func (w *fakeChannelWriter) preset(def model.ChannelDefinition, value model.DimmerValue) {
	w.current[def.A] = value
}

func (w *fakeChannelWriter) SetChannel(_ string, def model.ChannelDefinition, value model.DimmerValue) error {
	w.current[def.A] = value
	w.writes = append(w.writes, value)
	return nil
}

func (w *fakeChannelWriter) GetChannel(_ string, def model.ChannelDefinition) (model.DimmerValue, error) {
	if v, ok := w.current[def.A]; ok {
		return v, nil
	}
	return model.DimmerValue{Kind: def.Kind}, nil
}

// Scenario S1: a 4-tick RGB fade from zero to full at dimming_amount=1000
// produces the exact intermediate values (64,64,64), (128,128,128),
// (191,191,191), (255,255,255).
func TestFadeScenarioS1(t *testing.T) {
	def := model.ChannelDefinition{Kind: model.KindRgb, A: 0, B: 1, C: 2}
	w := newFakeChannelWriter()
	w.preset(def, model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{0, 0, 0}})

	targets := []FadeTarget{{
		Def:    def,
		Target: model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{255, 255, 255}},
	}}

	f := NewFade(targets, 4)
	for !f.Done() {
		if err := f.Tick(w); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := [][3]uint8{{64, 64, 64}, {128, 128, 128}, {191, 191, 191}, {255, 255, 255}}
	if len(w.writes) != len(want) {
		t.Fatalf("got %d writes, want %d: %+v", len(w.writes), len(want), w.writes)
	}
	for i, v := range want {
		if w.writes[i].Values != v {
			t.Errorf("tick %d: got %+v, want %+v", i+1, w.writes[i].Values, v)
		}
	}
}

// Scenario S2: an 8-tick RGB fade down to zero lands exactly on (0,0,0) on
// the final tick.
func TestFadeScenarioS2(t *testing.T) {
	def := model.ChannelDefinition{Kind: model.KindRgb, A: 0, B: 1, C: 2}
	w := newFakeChannelWriter()
	w.preset(def, model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{255, 255, 255}})

	targets := []FadeTarget{{
		Def:    def,
		Target: model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{0, 0, 0}},
	}}

	f := NewFade(targets, 8)
	ticks := 0
	for !f.Done() {
		if err := f.Tick(w); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ticks++
	}
	if ticks != 8 {
		t.Fatalf("expected exactly 8 ticks, got %d", ticks)
	}
	last := w.writes[len(w.writes)-1]
	if last.Values != [3]uint8{0, 0, 0} {
		t.Errorf("final value = %+v, want (0,0,0)", last.Values)
	}
}

// Testable property 5: a fade whose starting value already equals its
// target on every component completes in 0 ticks and writes nothing.
func TestFadeNoOpWhenStartEqualsTarget(t *testing.T) {
	def := model.ChannelDefinition{Kind: model.KindRgb, A: 0, B: 1, C: 2}
	w := newFakeChannelWriter()
	w.preset(def, model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{128, 64, 32}})

	targets := []FadeTarget{{
		Def:    def,
		Target: model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{128, 64, 32}},
	}}

	f := NewFade(targets, 10)
	if f.Done() {
		t.Fatal("fade should not report done before its first tick captures the start value")
	}
	if err := f.Tick(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Done() {
		t.Error("expected a no-op fade to be done after capturing an identical start/target")
	}
	if len(w.writes) != 0 {
		t.Errorf("expected no writes, got %+v", w.writes)
	}
}

func TestFadeInstantaneous(t *testing.T) {
	def := model.ChannelDefinition{Kind: model.KindSingle, A: 0}
	w := newFakeChannelWriter()
	w.preset(def, model.DimmerValue{Kind: model.KindSingle, Values: [3]uint8{0}})

	targets := []FadeTarget{{
		Def:    def,
		Target: model.DimmerValue{Kind: model.KindSingle, Values: [3]uint8{200}},
	}}

	f := NewFade(targets, 0)
	if err := f.Tick(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Done() {
		t.Error("expected zero-tick fade to be done after one Tick")
	}
	if len(w.writes) != 1 || w.writes[0].Values[0] != 200 {
		t.Errorf("unexpected writes: %+v", w.writes)
	}
}

func TestFadeMultipleEntriesAtomicPerTick(t *testing.T) {
	rgbDef := model.ChannelDefinition{Kind: model.KindRgb, A: 0, B: 1, C: 2}
	singleDef := model.ChannelDefinition{Kind: model.KindSingle, A: 5}

	w := newFakeChannelWriter()
	w.preset(rgbDef, model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{0, 0, 0}})
	w.preset(singleDef, model.DimmerValue{Kind: model.KindSingle, Values: [3]uint8{10}})

	targets := []FadeTarget{
		{Def: rgbDef, Target: model.DimmerValue{Kind: model.KindRgb, Values: [3]uint8{100, 100, 100}}},
		{Def: singleDef, Target: model.DimmerValue{Kind: model.KindSingle, Values: [3]uint8{20}}},
	}

	f := NewFade(targets, 2)
	for !f.Done() {
		if err := f.Tick(w); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(w.writes) != 4 {
		t.Fatalf("expected 2 entries * 2 ticks = 4 writes, got %d", len(w.writes))
	}
	if !reflect.DeepEqual(w.writes[3].Values, [3]uint8{20, 0, 0}) {
		t.Errorf("unexpected final single-channel write placement: %+v", w.writes)
	}
}
