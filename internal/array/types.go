// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package array

import (
	"dmxctl/internal/effect"
	"dmxctl/internal/model"
)

// requestQueueDepth bounds every manager's request channel (spec §5: "depth
// 10 is sufficient; the protocol has low fan-in").
const requestQueueDepth = 10

type addArrayRequest struct {
	array *model.DmxArray
	reply chan error
}

type removeArrayRequest struct {
	id    string
	reply chan struct{}
}

type setGlobalEffectRequest struct {
	id    string
	def   model.EffectNodeDefinition
	reply chan struct{}
}

type removeGlobalEffectRequest struct {
	id    string
	reply chan struct{}
}

type setGlobalValueRequest struct {
	name  string
	value string
	reply chan struct{}
}

type removeGlobalValueRequest struct {
	name  string
	reply chan struct{}
}

// initializeArrayValuesRequest overlays values onto an array's symbol
// table, replacing it (spec §9 open question on `values` scope, resolved
// as option (b): durable overlay of the array table).
type initializeArrayValuesRequest struct {
	arrayID string
	values  model.SymbolTable
	reply   chan error
}

type getEffectRuntimeRequest struct {
	arrayID       string
	usage         model.Usage
	effectID      string
	dimmingAmount int
	reply         chan getEffectRuntimeResult
}

type getEffectRuntimeResult struct {
	node effect.Node
	err  error
}

type dumpRequest struct {
	reply chan Dump
}

// Dump is a point-in-time copy of Manager's declarative tables, returned
// by Dump() for diagnostic introspection (spec §4.1 "Supplementary
// feature").
type Dump struct {
	Arrays        map[string]*model.DmxArray
	GlobalEffects map[string]model.EffectNodeDefinition
	GlobalValues  model.SymbolTable
}
