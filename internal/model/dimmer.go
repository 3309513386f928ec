// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DimmerValue is a concrete channel value matching a ChannelDefinition's
// shape: Single(u8), Rgb(u8,u8,u8) or TriWhite(u8,u8,u8).
type DimmerValue struct {
	Kind   Kind
	Values [3]uint8 // only Values[0] is meaningful for KindSingle
}

// TargetValue records which channel families (single/rgb/tri_white) a
// target declaration provides values for. Parsing "s(..);rgb(..);w(..)"
// forbids supplying the same family twice.
type TargetValue struct {
	Single   *uint8
	Rgb      *[3]uint8
	TriWhite *[3]uint8
}

// ForKind returns the DimmerValue this target provides for the given
// channel kind, or an error if the target lacks that family.
func (t TargetValue) ForKind(k Kind) (DimmerValue, error) {
	switch k {
	case KindSingle:
		if t.Single == nil {
			return DimmerValue{}, fmt.Errorf("target value has no single(s) family for a single channel")
		}
		return DimmerValue{Kind: KindSingle, Values: [3]uint8{*t.Single, 0, 0}}, nil
	case KindRgb:
		if t.Rgb == nil {
			return DimmerValue{}, fmt.Errorf("target value has no rgb family for an rgb channel")
		}
		return DimmerValue{Kind: KindRgb, Values: *t.Rgb}, nil
	case KindTriWhite:
		if t.TriWhite == nil {
			return DimmerValue{}, fmt.Errorf("target value has no tri_white(w) family for a tri_white channel")
		}
		return DimmerValue{Kind: KindTriWhite, Values: *t.TriWhite}, nil
	default:
		return DimmerValue{}, fmt.Errorf("unknown channel kind %v", k)
	}
}

// Scale scales every byte in the target value by dimmingAmount/DimmingAmountMax,
// using integer division, as spec §4.1 step 4 requires.
func (t TargetValue) Scale(dimmingAmount int) TargetValue {
	scaled := TargetValue{}
	if t.Single != nil {
		v := scaleByte(*t.Single, dimmingAmount)
		scaled.Single = &v
	}
	if t.Rgb != nil {
		v := [3]uint8{
			scaleByte(t.Rgb[0], dimmingAmount),
			scaleByte(t.Rgb[1], dimmingAmount),
			scaleByte(t.Rgb[2], dimmingAmount),
		}
		scaled.Rgb = &v
	}
	if t.TriWhite != nil {
		v := [3]uint8{
			scaleByte(t.TriWhite[0], dimmingAmount),
			scaleByte(t.TriWhite[1], dimmingAmount),
			scaleByte(t.TriWhite[2], dimmingAmount),
		}
		scaled.TriWhite = &v
	}
	return scaled
}

func scaleByte(b uint8, dimmingAmount int) uint8 {
	return uint8((int(b) * dimmingAmount) / DimmingAmountMax)
}

// ParseTargetValue parses a string of the form "s(128);rgb(10,20,30);w(1,2,3)"
// (clauses separated by ';', each clause optional, no family repeated).
func ParseTargetValue(s string) (TargetValue, error) {
	var t TargetValue
	s = strings.TrimSpace(s)
	if s == "" {
		return t, fmt.Errorf("empty target value")
	}

	for _, clause := range strings.Split(s, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		open := strings.IndexByte(clause, '(')
		if open < 0 || !strings.HasSuffix(clause, ")") {
			return TargetValue{}, fmt.Errorf("invalid target clause %q: expected family(values)", clause)
		}
		family := clause[:open]
		inner := clause[open+1 : len(clause)-1]
		vals, err := parseByteList(inner)
		if err != nil {
			return TargetValue{}, fmt.Errorf("invalid target clause %q: %w", clause, err)
		}

		switch family {
		case "s":
			if t.Single != nil {
				return TargetValue{}, fmt.Errorf("duplicate single(s) family in target value")
			}
			if len(vals) != 1 {
				return TargetValue{}, fmt.Errorf("s(...) expects exactly 1 value, got %d", len(vals))
			}
			v := vals[0]
			t.Single = &v
		case "rgb":
			if t.Rgb != nil {
				return TargetValue{}, fmt.Errorf("duplicate rgb family in target value")
			}
			if len(vals) != 3 {
				return TargetValue{}, fmt.Errorf("rgb(...) expects exactly 3 values, got %d", len(vals))
			}
			v := [3]uint8{vals[0], vals[1], vals[2]}
			t.Rgb = &v
		case "w":
			if t.TriWhite != nil {
				return TargetValue{}, fmt.Errorf("duplicate tri_white(w) family in target value")
			}
			if len(vals) != 3 {
				return TargetValue{}, fmt.Errorf("w(...) expects exactly 3 values, got %d", len(vals))
			}
			v := [3]uint8{vals[0], vals[1], vals[2]}
			t.TriWhite = &v
		default:
			return TargetValue{}, fmt.Errorf("unknown target family %q", family)
		}
	}

	return t, nil
}

func parseByteList(s string) ([]uint8, error) {
	pieces := strings.Split(s, ",")
	out := make([]uint8, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("value %d out of byte range", n)
		}
		out = append(out, uint8(n))
	}
	return out, nil
}
