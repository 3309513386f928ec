// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package model

import (
	"fmt"
	"strings"
)

// MaxExpansionDepth bounds light-group expansion recursion (spec §4.1):
// any chain of nested @group references deeper than this is rejected as a
// (likely mutually recursive) cycle, diagnosable from the returned
// CycleError's expansion stack.
const MaxExpansionDepth = 5

// ExpandGroup expands a named lights group of array into a mapping from
// universe id to the ordered list of ChannelDefinitions it contains. The
// outer map's iteration order is not meaningful; each bucket preserves
// insertion order.
func ExpandGroup(array *DmxArray, name string) (map[string][]ChannelDefinition, error) {
	result := make(map[string][]ChannelDefinition)
	if err := expandGroup(array, name, array.UniverseID, nil, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func expandGroup(array *DmxArray, name, universe string, names, stack []string, result map[string][]ChannelDefinition) error {
	if len(names) >= MaxExpansionDepth || containsName(names, name) {
		return &CycleError{Stack: append(append([]string{}, stack...), "@"+name)}
	}

	expr, ok := array.Lights[name]
	if !ok {
		return fmt.Errorf("light group %q does not exist (expansion stack: %s)", name, joinStack(stack))
	}

	newNames := append(append([]string{}, names...), name)
	newStack := append(append([]string{}, stack...), fmt.Sprintf("@%s -> %s", name, expr))
	return expandExpression(array, expr, universe, newNames, newStack, result)
}

func expandExpression(array *DmxArray, expr, universe string, names, stack []string, result map[string][]ChannelDefinition) error {
	cur := universe
	for _, raw := range strings.Split(expr, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		switch {
		case strings.HasPrefix(entry, "@"):
			if err := expandGroup(array, entry[1:], cur, names, stack, result); err != nil {
				return err
			}
		case strings.HasPrefix(entry, "$"):
			cur = entry[1:]
		default:
			def, err := ParseLightEntryForm(entry)
			if err != nil {
				return fmt.Errorf("%w (expansion stack: %s)", err, joinStack(stack))
			}
			result[cur] = append(result[cur], def)
		}
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func joinStack(stack []string) string {
	return strings.Join(stack, " -> ")
}

// CycleError is returned when light-group expansion recurses past
// MaxExpansionDepth or revisits a group already on the expansion stack.
// Stack carries the chain of expressions traversed so the operator can
// diagnose the cycle (spec §4.1).
type CycleError struct {
	Stack []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("light group expansion cycle detected: %s", joinStack(e.Stack))
}
