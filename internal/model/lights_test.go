// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package model

import (
	"strings"
	"testing"
)

func TestExpandGroupSimple(t *testing.T) {
	array := &DmxArray{
		UniverseID: "u1",
		Lights: map[string]string{
			"all":  "rgb:0,rgb:3",
			"pair": "@all",
		},
	}

	got, err := ExpandGroup(array, "pair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defs := got["u1"]
	if len(defs) != 2 {
		t.Fatalf("expected 2 channel definitions, got %d: %+v", len(defs), defs)
	}
	if defs[0] != (ChannelDefinition{Kind: KindRgb, A: 0, B: 1, C: 2}) {
		t.Errorf("unexpected first def: %+v", defs[0])
	}
	if defs[1] != (ChannelDefinition{Kind: KindRgb, A: 3, B: 4, C: 5}) {
		t.Errorf("unexpected second def: %+v", defs[1])
	}
}

func TestExpandGroupUniverseSwitch(t *testing.T) {
	array := &DmxArray{
		UniverseID: "u1",
		Lights: map[string]string{
			"mixed": "rgb:0,$u2,rgb:3",
		},
	}

	got, err := ExpandGroup(array, "mixed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got["u1"]) != 1 || len(got["u2"]) != 1 {
		t.Fatalf("expected one def per universe, got u1=%d u2=%d", len(got["u1"]), len(got["u2"]))
	}
}

// Scenario S5: a self-referencing group must be reported as a cycle, not
// recursed into indefinitely.
func TestExpandGroupCycleSelf(t *testing.T) {
	array := &DmxArray{
		UniverseID: "u1",
		Lights: map[string]string{
			"all":  "@loop",
			"loop": "@loop",
		},
	}

	_, err := ExpandGroup(array, "all")
	if err == nil {
		t.Fatal("expected a cycle error, got nil")
	}
	var cycleErr *CycleError
	if !asCycleError(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
	if !strings.Contains(cycleErr.Error(), "loop") {
		t.Errorf("expected cycle error to mention the offending group, got %q", cycleErr.Error())
	}
}

// A chain of distinct groups deeper than MaxExpansionDepth is also rejected,
// even without a true cycle, per spec §4.1's depth bound.
func TestExpandGroupDepthBound(t *testing.T) {
	array := &DmxArray{
		UniverseID: "u1",
		Lights: map[string]string{
			"g0": "@g1",
			"g1": "@g2",
			"g2": "@g3",
			"g3": "@g4",
			"g4": "@g5",
			"g5": "rgb:0",
		},
	}

	_, err := ExpandGroup(array, "g0")
	if err == nil {
		t.Fatal("expected a depth-bound cycle error, got nil")
	}
}

func TestExpandGroupMissingGroup(t *testing.T) {
	array := &DmxArray{UniverseID: "u1", Lights: map[string]string{"all": "@ghost"}}
	if _, err := ExpandGroup(array, "all"); err == nil {
		t.Fatal("expected error for missing group reference")
	}
}

func asCycleError(err error, target **CycleError) bool {
	ce, ok := err.(*CycleError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
