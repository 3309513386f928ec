// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ChannelDefinition is a variant over the three channel shapes spec §3
// defines: Single(a), Rgb(a,b,c), TriWhite(a,b,c), where a,b,c are DMX
// channel indices (0-based) within a universe's output frame.
type ChannelDefinition struct {
	Kind Kind
	A, B, C int
}

// Indices returns the component channel indices in role order
// (S / R,G,B / W1,W2,W3).
func (c ChannelDefinition) Indices() []int {
	if c.Kind == KindSingle {
		return []int{c.A}
	}
	return []int{c.A, c.B, c.C}
}

// Roles returns the role of each component, in the same order as Indices.
func (c ChannelDefinition) Roles() []Role {
	switch c.Kind {
	case KindSingle:
		return []Role{RoleS}
	case KindRgb:
		return []Role{RoleR, RoleG, RoleB}
	case KindTriWhite:
		return []Role{RoleW1, RoleW2, RoleW3}
	}
	return nil
}

// Validate checks that every component index lies within [0, channels) and
// that RGB/TriWhite components are pairwise distinct (spec §3).
func (c ChannelDefinition) Validate(channels int) error {
	for _, idx := range c.Indices() {
		if idx < 0 || idx >= channels {
			return fmt.Errorf("channel index %d out of range [0,%d)", idx, channels)
		}
	}
	if c.Kind != KindSingle {
		if c.A == c.B || c.B == c.C || c.A == c.C {
			return fmt.Errorf("%s channel indices must be distinct: %d,%d,%d", c.Kind, c.A, c.B, c.C)
		}
	}
	return nil
}

// ParseLightEntryForm parses a single light-expression entry of the form
// "s:n", "rgb:n", "rgb:a/b/c", "w:n" or "w:a/b/c" into a ChannelDefinition.
// It does not recognize "@name" or "$uid" forms — those are handled by the
// lights-expression expander, which delegates bare channel entries here.
func ParseLightEntryForm(entry string) (ChannelDefinition, error) {
	parts := strings.SplitN(entry, ":", 2)
	if len(parts) != 2 {
		return ChannelDefinition{}, fmt.Errorf("invalid light entry %q: expected form prefix:value", entry)
	}
	prefix, rest := parts[0], parts[1]

	switch prefix {
	case "s":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return ChannelDefinition{}, fmt.Errorf("invalid single channel entry %q: %w", entry, err)
		}
		return ChannelDefinition{Kind: KindSingle, A: n}, nil
	case "rgb":
		return parseTripleOrShorthand(entry, rest, KindRgb)
	case "w":
		return parseTripleOrShorthand(entry, rest, KindTriWhite)
	default:
		return ChannelDefinition{}, fmt.Errorf("invalid light entry %q: unknown prefix %q", entry, prefix)
	}
}

func parseTripleOrShorthand(entry, rest string, kind Kind) (ChannelDefinition, error) {
	if strings.Contains(rest, "/") {
		pieces := strings.Split(rest, "/")
		if len(pieces) != 3 {
			return ChannelDefinition{}, fmt.Errorf("invalid light entry %q: expected a/b/c", entry)
		}
		vals := make([]int, 3)
		for i, p := range pieces {
			n, err := strconv.Atoi(p)
			if err != nil {
				return ChannelDefinition{}, fmt.Errorf("invalid light entry %q: %w", entry, err)
			}
			vals[i] = n
		}
		return ChannelDefinition{Kind: kind, A: vals[0], B: vals[1], C: vals[2]}, nil
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return ChannelDefinition{}, fmt.Errorf("invalid light entry %q: %w", entry, err)
	}
	// Shorthand: rgb:n expands to Rgb(n, n+1, n+2); w:n expands identically.
	return ChannelDefinition{Kind: kind, A: n, B: n + 1, C: n + 2}, nil
}
