// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package array

import (
	"fmt"

	"dmxctl/internal/model"
)

// validateArray checks the invariants spec §3/§4.1 place on a declared
// array: an "all" group must exist, every channel used by any other group
// must also appear in "all" with the identical role, and no channel may be
// assigned two different roles within "all" itself. Light-group expansion
// (and its cycle/depth checks) is delegated to model.ExpandGroup.
func validateArray(array *model.DmxArray) error {
	if _, ok := array.Lights[model.AllGroup]; !ok {
		return &ValidationError{ArrayID: array.ID, Reason: fmt.Sprintf("missing required light group %q", model.AllGroup)}
	}

	allExpansion, err := model.ExpandGroup(array, model.AllGroup)
	if err != nil {
		return &ValidationError{ArrayID: array.ID, Reason: err.Error()}
	}

	canonical := make(map[string]map[int]model.Role)
	for universe, defs := range allExpansion {
		m := make(map[int]model.Role)
		canonical[universe] = m
		for _, def := range defs {
			if err := recordRoles(m, def); err != nil {
				return &ValidationError{ArrayID: array.ID, Reason: fmt.Sprintf("light group %q: %s", model.AllGroup, err)}
			}
		}
	}

	for name := range array.Lights {
		if name == model.AllGroup {
			continue
		}
		expansion, err := model.ExpandGroup(array, name)
		if err != nil {
			return &ValidationError{ArrayID: array.ID, Reason: err.Error()}
		}
		for universe, defs := range expansion {
			m := canonical[universe]
			for _, def := range defs {
				if err := checkAgainstAll(m, def, universe); err != nil {
					return &ValidationError{ArrayID: array.ID, Reason: fmt.Sprintf("light group %q: %s", name, err)}
				}
			}
		}
	}

	for id, def := range array.Effects {
		if err := def.Validate(); err != nil {
			return &ValidationError{ArrayID: array.ID, Reason: fmt.Sprintf("effect %q: %s", id, err)}
		}
	}

	return nil
}

func recordRoles(m map[int]model.Role, def model.ChannelDefinition) error {
	indices := def.Indices()
	roles := def.Roles()
	for i, idx := range indices {
		role := roles[i]
		if existing, ok := m[idx]; ok && existing != role {
			return fmt.Errorf("channel %d has conflicting roles %s and %s", idx, existing, role)
		}
		m[idx] = role
	}
	return nil
}

func checkAgainstAll(all map[int]model.Role, def model.ChannelDefinition, universe string) error {
	indices := def.Indices()
	roles := def.Roles()
	for i, idx := range indices {
		role := roles[i]
		existing, ok := all[idx]
		if !ok {
			return fmt.Errorf("channel %d (universe %s) is not defined in %q", idx, universe, model.AllGroup)
		}
		if existing != role {
			return fmt.Errorf("channel %d (universe %s) has role %s in %q but %s here", idx, universe, existing, model.AllGroup, role)
		}
	}
	return nil
}
