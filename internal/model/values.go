// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package model

import (
	"fmt"
	"strings"
)

// SymbolTable is a simple string->string value table. Two layers exist at
// runtime: a process-wide global table and one table per array; lookup
// consults the array table first, then the global table (spec §3).
type SymbolTable map[string]string

// Clone returns a shallow copy, used by the Array Manager's Dump so the
// snapshot does not share the array's table.
func (s SymbolTable) Clone() SymbolTable {
	out := make(SymbolTable, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ExpandVariables replaces every `` `name` `` or `` `name=default` ``
// reference in s with its resolved value. Resolution order: arrayTable,
// then globalTable, then the literal default (if given); if none apply,
// expansion fails. Expansion is non-recursive — resolved values are
// substituted verbatim, never re-scanned for further backtick references.
// A string with no backticks is returned unchanged (idempotent).
func ExpandVariables(s string, arrayTable, globalTable SymbolTable) (string, error) {
	var b strings.Builder
	rest := s

	for {
		start := strings.IndexByte(rest, '`')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+1:]

		end := strings.IndexByte(rest, '`')
		if end < 0 {
			return "", fmt.Errorf("unterminated variable reference in %q", s)
		}
		ref := rest[:end]
		rest = rest[end+1:]

		name, def, hasDefault := strings.Cut(ref, "=")
		value, err := resolveVariable(name, def, hasDefault, arrayTable, globalTable)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
	}

	return b.String(), nil
}

func resolveVariable(name, def string, hasDefault bool, arrayTable, globalTable SymbolTable) (string, error) {
	if arrayTable != nil {
		if v, ok := arrayTable[name]; ok {
			return v, nil
		}
	}
	if globalTable != nil {
		if v, ok := globalTable[name]; ok {
			return v, nil
		}
	}
	if hasDefault {
		return def, nil
	}
	return "", fmt.Errorf("unbound variable %q with no default", name)
}
