// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

// Package array implements the Array Manager: the declarative model owner
// for DMX arrays, light groups, effect definitions and value symbol
// tables. It validates declarations on arrival and compiles effect-tree
// definitions into runtime effect.Node trees for the Art-Net Manager to
// drive (spec §4.1).
package array

import (
	"context"
	"log/slog"

	"dmxctl/internal/effect"
	"dmxctl/internal/metrics"
	"dmxctl/internal/model"
)

// Manager owns arrays, global effects and the global value table behind a
// single request channel — a closed loop over a typed request queue with a
// one-shot reply sink per request (spec §5, §9 "Actor coordination").
// Every field below is touched only from the run loop goroutine; callers
// never reach into Manager state directly.
type Manager struct {
	requests chan any
	logger   *slog.Logger

	arrays        map[string]*model.DmxArray
	globalEffects map[string]model.EffectNodeDefinition
	globalValues  model.SymbolTable
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		requests:      make(chan any, requestQueueDepth),
		logger:        logger,
		arrays:        make(map[string]*model.DmxArray),
		globalEffects: make(map[string]model.EffectNodeDefinition),
		globalValues:  make(model.SymbolTable),
	}
}

// Run services the request queue until ctx is cancelled. Cancellation is
// only observed between requests, never interrupting one in flight (spec
// §5 "Cancellation").
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-m.requests:
			m.handle(req)
		}
	}
}

func (m *Manager) handle(req any) {
	switch r := req.(type) {
	case addArrayRequest:
		r.reply <- m.addArray(r.array)
	case removeArrayRequest:
		m.removeArray(r.id)
		close(r.reply)
	case setGlobalEffectRequest:
		m.globalEffects[r.id] = r.def
		close(r.reply)
	case removeGlobalEffectRequest:
		delete(m.globalEffects, r.id)
		close(r.reply)
	case setGlobalValueRequest:
		m.globalValues[r.name] = r.value
		close(r.reply)
	case removeGlobalValueRequest:
		delete(m.globalValues, r.name)
		close(r.reply)
	case initializeArrayValuesRequest:
		r.reply <- m.initializeArrayValues(r.arrayID, r.values)
	case getEffectRuntimeRequest:
		node, err := m.getEffectRuntime(r.arrayID, r.usage, r.effectID, r.dimmingAmount)
		r.reply <- getEffectRuntimeResult{node: node, err: err}
	case dumpRequest:
		r.reply <- m.dump()
	default:
		m.logger.Warn("array manager: unknown request type")
	}
}

// send submits req and is the only place that touches m.requests from a
// caller goroutine. A dropped reply (caller gone) is tolerated by every
// handler above, per spec §5.
func (m *Manager) send(req any) {
	m.requests <- req
}

// AddArray validates and (on success) installs array, replacing any prior
// array with the same id. Failure leaves previous state untouched (spec
// §7: declaration errors are rejected atomically).
func (m *Manager) AddArray(array *model.DmxArray) error {
	reply := make(chan error, 1)
	m.send(addArrayRequest{array: array, reply: reply})
	return <-reply
}

// RemoveArray deletes an array if present; removing an unknown id is a
// no-op success (spec §4.1 "Failure semantics").
func (m *Manager) RemoveArray(id string) {
	reply := make(chan struct{})
	m.send(removeArrayRequest{id: id, reply: reply})
	<-reply
}

func (m *Manager) SetGlobalEffect(id string, def model.EffectNodeDefinition) {
	reply := make(chan struct{})
	m.send(setGlobalEffectRequest{id: id, def: def, reply: reply})
	<-reply
}

func (m *Manager) RemoveGlobalEffect(id string) {
	reply := make(chan struct{})
	m.send(removeGlobalEffectRequest{id: id, reply: reply})
	<-reply
}

func (m *Manager) SetGlobalValue(name, value string) {
	reply := make(chan struct{})
	m.send(setGlobalValueRequest{name: name, value: value, reply: reply})
	<-reply
}

func (m *Manager) RemoveGlobalValue(name string) {
	reply := make(chan struct{})
	m.send(removeGlobalValueRequest{name: name, reply: reply})
	<-reply
}

// InitializeArrayValues replaces the array's symbol table with values.
func (m *Manager) InitializeArrayValues(arrayID string, values model.SymbolTable) error {
	reply := make(chan error, 1)
	m.send(initializeArrayValuesRequest{arrayID: arrayID, values: values, reply: reply})
	return <-reply
}

// GetEffectRuntime compiles the effect selected for (arrayID, usage,
// effectID) into a runtime node ready for Art-Net Manager's StartEffect
// (spec §4.1 "Effect compilation").
func (m *Manager) GetEffectRuntime(arrayID string, usage model.Usage, effectID string, dimmingAmount int) (effect.Node, error) {
	reply := make(chan getEffectRuntimeResult, 1)
	m.send(getEffectRuntimeRequest{arrayID: arrayID, usage: usage, effectID: effectID, dimmingAmount: dimmingAmount, reply: reply})
	result := <-reply
	return result.node, result.err
}

// Dump returns a snapshot of the array/effect/value tables for
// introspection. Used only by internal/statusserver's /healthz (spec
// §4.1 "Supplementary feature") — never by the DMX command path.
func (m *Manager) Dump() Dump {
	reply := make(chan Dump, 1)
	m.send(dumpRequest{reply: reply})
	return <-reply
}

func (m *Manager) addArray(array *model.DmxArray) error {
	array.ApplyDefaults()
	if err := validateArray(array); err != nil {
		return err
	}
	m.arrays[array.ID] = array
	metrics.ArraysTotal.Set(float64(len(m.arrays)))
	return nil
}

func (m *Manager) removeArray(id string) {
	delete(m.arrays, id)
	metrics.ArraysTotal.Set(float64(len(m.arrays)))
}

// dump copies the three tables so the caller never holds a reference into
// run-loop-owned state (spec §5: callers never reach into Manager state
// directly).
func (m *Manager) dump() Dump {
	arrays := make(map[string]*model.DmxArray, len(m.arrays))
	for id, array := range m.arrays {
		copied := *array
		copied.Lights = make(map[string]string, len(array.Lights))
		for name, expr := range array.Lights {
			copied.Lights[name] = expr
		}
		copied.Effects = make(map[string]model.EffectNodeDefinition, len(array.Effects))
		for name, def := range array.Effects {
			copied.Effects[name] = def
		}
		copied.DefaultValues = array.DefaultValues.Clone()
		arrays[id] = &copied
	}
	globalEffects := make(map[string]model.EffectNodeDefinition, len(m.globalEffects))
	for id, def := range m.globalEffects {
		globalEffects[id] = def
	}
	globalValues := make(model.SymbolTable, len(m.globalValues))
	for name, value := range m.globalValues {
		globalValues[name] = value
	}
	return Dump{Arrays: arrays, GlobalEffects: globalEffects, GlobalValues: globalValues}
}

func (m *Manager) initializeArrayValues(arrayID string, values model.SymbolTable) error {
	array, ok := m.arrays[arrayID]
	if !ok {
		return &NotFoundError{Kind: "array", ID: arrayID}
	}
	array.DefaultValues = values
	return nil
}

func (m *Manager) getEffectRuntime(arrayID string, usage model.Usage, effectID string, dimmingAmount int) (effect.Node, error) {
	array, ok := m.arrays[arrayID]
	if !ok {
		return nil, &NotFoundError{Kind: "array", ID: arrayID}
	}

	resolvedID := array.EffectNameFor(usage, effectID)
	scope := &compileScope{
		array:         array,
		globalEffects: m.globalEffects,
		globalValues:  m.globalValues,
		dimmingAmount: dimmingAmount,
	}

	def, err := resolveEffectDefinition(scope, usage, resolvedID)
	if err != nil {
		return nil, err
	}
	return compileEffect(def, scope)
}
