// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

// Package model implements the declarative DMX data model: channel
// definitions, dimmer values, light-group expressions, symbol tables and
// effect-tree definitions. It holds no runtime behavior beyond parsing,
// expansion and validation — the Array Manager and Art-Net Manager compile
// and execute this model.
package model

// Kind distinguishes the three channel-definition shapes the array
// declares: a single intensity channel, an RGB triple, or a tri-white
// (three independent white temperature) triple.
type Kind int

const (
	KindSingle Kind = iota
	KindRgb
	KindTriWhite
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindRgb:
		return "rgb"
	case KindTriWhite:
		return "tri_white"
	default:
		return "unknown"
	}
}

// ComponentCount returns how many DMX bytes a channel of this kind spans.
func (k Kind) ComponentCount() int {
	if k == KindSingle {
		return 1
	}
	return 3
}

// Role identifies the semantic role a single DMX byte plays within its
// channel definition. Used to detect role conflicts when light groups are
// combined (spec §3: "A channel cannot be simultaneously two different
// roles in the same universe").
type Role string

const (
	RoleS  Role = "S"
	RoleR  Role = "R"
	RoleG  Role = "G"
	RoleB  Role = "B"
	RoleW1 Role = "W1"
	RoleW2 Role = "W2"
	RoleW3 Role = "W3"
)

// DimmingAmountMax is the upper bound of the dimming_amount scale (1000 ==
// full brightness / identity scaling).
const DimmingAmountMax = 1000
