// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package array

import (
	"fmt"

	"dmxctl/internal/effect"
	"dmxctl/internal/model"
)

// compileScope carries the context a single GetEffectRuntime compilation
// resolves variables and light groups against (spec §4.1 step 3: "a scope
// carrying (array_id, effect_id?, dimming_amount)").
type compileScope struct {
	array         *model.DmxArray
	globalEffects map[string]model.EffectNodeDefinition
	globalValues  model.SymbolTable
	dimmingAmount int
}

// compileEffect resolves def into a runtime effect.Node tree, expanding
// every NumberOrVariable and light-group/target reference to concrete
// values at this point — the runtime node never sees the declaration
// again (spec §4.1 step 3).
func compileEffect(def model.EffectNodeDefinition, scope *compileScope) (effect.Node, error) {
	switch def.Type {
	case model.NodeSequence:
		children, err := compileChildren(def.Nodes, scope)
		if err != nil {
			return nil, err
		}
		return effect.NewSequence(children), nil

	case model.NodeParallel:
		children, err := compileChildren(def.Nodes, scope)
		if err != nil {
			return nil, err
		}
		return effect.NewParallel(children), nil

	case model.NodeDelay:
		ticks, err := def.Ticks.Resolve(scope.array.DefaultValues, scope.globalValues)
		if err != nil {
			return nil, fmt.Errorf("delay node: %w", err)
		}
		return effect.NewDelay(ticks), nil

	case model.NodeFade:
		return compileFade(def, scope)

	default:
		return nil, fmt.Errorf("unknown effect node type %q", def.Type)
	}
}

func compileChildren(defs []model.EffectNodeDefinition, scope *compileScope) ([]effect.Node, error) {
	nodes := make([]effect.Node, 0, len(defs))
	for i, child := range defs {
		n, err := compileEffect(child, scope)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func compileFade(def model.EffectNodeDefinition, scope *compileScope) (effect.Node, error) {
	ticks, err := def.Ticks.Resolve(scope.array.DefaultValues, scope.globalValues)
	if err != nil {
		return nil, fmt.Errorf("fade node: %w", err)
	}

	lightsName := def.Lights
	if lightsName == "" {
		lightsName = model.AllGroup
	}
	expansion, err := model.ExpandGroup(scope.array, lightsName)
	if err != nil {
		return nil, fmt.Errorf("fade node: %w", err)
	}

	targetExpr, err := model.ExpandVariables(def.Target, scope.array.DefaultValues, scope.globalValues)
	if err != nil {
		return nil, fmt.Errorf("fade node: target: %w", err)
	}
	targetValue, err := model.ParseTargetValue(targetExpr)
	if err != nil {
		return nil, fmt.Errorf("fade node: target: %w", err)
	}
	if !def.NoDimming {
		targetValue = targetValue.Scale(scope.dimmingAmount)
	}

	var targets []effect.FadeTarget
	for universeID, defs := range expansion {
		for _, chDef := range defs {
			dv, err := targetValue.ForKind(chDef.Kind)
			if err != nil {
				return nil, fmt.Errorf("fade node: %w", err)
			}
			targets = append(targets, effect.FadeTarget{
				UniverseID: universeID,
				Def:        chDef,
				Target:     dv,
			})
		}
	}

	return effect.NewFade(targets, ticks), nil
}

// resolveEffectDefinition implements the lookup order of spec §4.1 step 2:
// array.effects, then global effects, then the built-in default for usage.
func resolveEffectDefinition(scope *compileScope, usage model.Usage, effectID string) (model.EffectNodeDefinition, error) {
	if def, ok := scope.array.Effects[effectID]; ok {
		return def, nil
	}
	if def, ok := scope.globalEffects[effectID]; ok {
		return def, nil
	}
	return builtinEffect(usage), nil
}
