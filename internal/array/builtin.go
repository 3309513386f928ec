// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package array

import "dmxctl/internal/model"

// Built-in fallback effect definitions used when an array (and the global
// effect table) do not define "on"/"off"/"dim" themselves (spec §3:
// "default effect names ... defaulting to the literals"). Each is a single
// Fade over the array's "all" group; the fade duration is itself a
// variable reference so an operator can retune it per-array via
// default_values without redeclaring the effect.
var (
	builtinOn = model.EffectNodeDefinition{
		Type:   model.NodeFade,
		Lights: model.AllGroup,
		Target: "s(255);rgb(255,255,255);w(255,255,255)",
		Ticks:  model.NumberOrVariable{Expr: "`fade_ticks=20`"},
	}

	builtinOff = model.EffectNodeDefinition{
		Type:   model.NodeFade,
		Lights: model.AllGroup,
		Target: "s(0);rgb(0,0,0);w(0,0,0)",
		Ticks:  model.NumberOrVariable{Expr: "`fade_ticks=20`"},
	}

	builtinDim = model.EffectNodeDefinition{
		Type:   model.NodeFade,
		Lights: model.AllGroup,
		Target: "s(128);rgb(128,128,128);w(128,128,128)",
		Ticks:  model.NumberOrVariable{Expr: "`fade_ticks=20`"},
	}
)

func builtinEffect(usage model.Usage) model.EffectNodeDefinition {
	switch usage {
	case model.UsageOn:
		return builtinOn
	case model.UsageOff:
		return builtinOff
	default:
		return builtinDim
	}
}
