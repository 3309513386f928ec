// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package model

import (
	"encoding/json"
	"testing"
)

func TestNumberOrVariableUnmarshalLiteral(t *testing.T) {
	var n NumberOrVariable
	if err := json.Unmarshal([]byte("42"), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Literal == nil || *n.Literal != 42 {
		t.Errorf("unexpected literal: %+v", n.Literal)
	}

	v, err := n.Resolve(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("resolved %d, want 42", v)
	}
}

func TestNumberOrVariableUnmarshalExpr(t *testing.T) {
	var n NumberOrVariable
	if err := json.Unmarshal([]byte(`"`+"`"+`duration=10`+"`"+`"`), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Literal != nil {
		t.Errorf("expected no literal, got %v", *n.Literal)
	}

	v, err := n.Resolve(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 10 {
		t.Errorf("resolved %d, want 10 from default", v)
	}

	v, err = n.Resolve(SymbolTable{"duration": "25"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 25 {
		t.Errorf("resolved %d, want 25 from array table", v)
	}
}

func TestNumberOrVariableRoundTrip(t *testing.T) {
	lit := 7
	n := NumberOrVariable{Literal: &lit}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back NumberOrVariable
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Literal == nil || *back.Literal != 7 {
		t.Errorf("round-trip mismatch: %+v", back)
	}
}

func TestEffectNodeDefinitionValidate(t *testing.T) {
	good := EffectNodeDefinition{
		Type: NodeSequence,
		Nodes: []EffectNodeDefinition{
			{Type: NodeFade, Target: "rgb(255,255,255)"},
			{Type: NodeDelay},
		},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	emptySeq := EffectNodeDefinition{Type: NodeParallel}
	if err := emptySeq.Validate(); err == nil {
		t.Error("expected error for empty parallel node")
	}

	fadeNoTarget := EffectNodeDefinition{Type: NodeFade}
	if err := fadeNoTarget.Validate(); err == nil {
		t.Error("expected error for fade node without a target")
	}

	unknown := EffectNodeDefinition{Type: "bogus"}
	if err := unknown.Validate(); err == nil {
		t.Error("expected error for unknown node type")
	}
}

func TestEffectNodeDefinitionJSONRoundTrip(t *testing.T) {
	const doc = `{
		"type": "sequence",
		"nodes": [
			{"type": "fade", "lights": "all", "target": "rgb(0,0,0)", "ticks": 10},
			{"type": "delay", "ticks": "` + "`hold=5`" + `"}
		]
	}`

	var n EffectNodeDefinition
	if err := json.Unmarshal([]byte(doc), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != NodeSequence || len(n.Nodes) != 2 {
		t.Fatalf("unexpected decode: %+v", n)
	}
	if n.Nodes[0].Ticks.Literal == nil || *n.Nodes[0].Ticks.Literal != 10 {
		t.Errorf("expected literal ticks=10, got %+v", n.Nodes[0].Ticks)
	}
	if n.Nodes[1].Ticks.Expr == "" {
		t.Errorf("expected expr-form ticks, got %+v", n.Nodes[1].Ticks)
	}
	if err := n.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
