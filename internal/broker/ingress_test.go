// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package broker

import (
	"context"
	"testing"

	"dmxctl/internal/array"
	"dmxctl/internal/artnet"
)

func newTestIngress(t *testing.T) (*Ingress, *fakePublisher) {
	t.Helper()
	arrayMgr := array.NewManager(testLogger())
	artnetMgr := artnet.NewManager(testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go arrayMgr.Run(ctx)
	go artnetMgr.Run(ctx)
	t.Cleanup(cancel)

	pub := &fakePublisher{}
	egress := NewEgress(pub, testLogger())
	return NewIngress(arrayMgr, artnetMgr, egress, testLogger()), pub
}

func TestDispatchAddAndRemoveUniverse(t *testing.T) {
	ing, pub := newTestIngress(t)

	ing.Dispatch("DMX/Universe/u1", []byte(`{"net":0,"subnet":0,"universe":0,"channels":4,"controller_ip":"127.0.0.1"}`))
	if len(pub.published) != 0 {
		t.Fatalf("unexpected error publishes: %+v", pub.published)
	}

	ing.Dispatch("DMX/Universe/u1", nil)
	if len(pub.published) != 0 {
		t.Fatalf("unexpected error publishes after remove: %+v", pub.published)
	}
}

func TestDispatchAddUniverseInvalidPayloadPublishesError(t *testing.T) {
	ing, pub := newTestIngress(t)

	ing.Dispatch("DMX/Universe/u1", []byte(`{"net": "not-a-number"}`))
	if len(pub.published) == 0 {
		t.Fatal("expected an error event for invalid JSON")
	}
}

func TestDispatchIgnoresServiceOwnedTopics(t *testing.T) {
	ing, pub := newTestIngress(t)
	ing.Dispatch("DMX/Active", []byte("true"))
	ing.Dispatch("DMX/Error", []byte(`{}`))
	if len(pub.published) != 0 {
		t.Fatalf("expected no dispatch for service-owned topics, got %+v", pub.published)
	}
}

func TestDispatchScenarioS1OnCommandPublishesNoError(t *testing.T) {
	ing, pub := newTestIngress(t)

	ing.Dispatch("DMX/Universe/u1", []byte(`{"net":0,"subnet":0,"universe":0,"channels":3,"controller_ip":"127.0.0.1"}`))
	ing.Dispatch("DMX/Array/stage", []byte(`{"universe_id":"u1","lights":{"all":"rgb:0"}}`))

	ing.Dispatch("DMX/Command/On", []byte(`{"array_id":"stage","dimming_amount":1000}`))

	if len(pub.published) != 0 {
		t.Fatalf("unexpected error events: %+v", pub.published)
	}
}

func TestDispatchCommandUnknownArrayPublishesError(t *testing.T) {
	ing, pub := newTestIngress(t)
	ing.Dispatch("DMX/Command/On", []byte(`{"array_id":"missing"}`))
	if len(pub.published) == 0 {
		t.Fatal("expected an error event for an unknown array")
	}
}

func TestDispatchSetCommandScenarioS7(t *testing.T) {
	ing, pub := newTestIngress(t)
	ing.Dispatch("DMX/Universe/u1", []byte(`{"net":0,"subnet":0,"universe":0,"channels":6,"controller_ip":"127.0.0.1"}`))

	ing.Dispatch("DMX/Command/Set", []byte(`{"universe_id":"u1","channels":"rgb:0,s:5","target":"s(128);rgb(10,20,30)","dimming_amount":500}`))

	if len(pub.published) != 0 {
		t.Fatalf("unexpected error events: %+v", pub.published)
	}
}

func TestDispatchUnknownCommandPublishesError(t *testing.T) {
	ing, pub := newTestIngress(t)
	ing.Dispatch("DMX/Command/Frobnicate", []byte(`{}`))
	if len(pub.published) == 0 {
		t.Fatal("expected an error event for an unrecognized command")
	}
}

func TestDispatchValueAddAndRemove(t *testing.T) {
	ing, pub := newTestIngress(t)
	ing.Dispatch("DMX/Value/greeting", []byte(`{"value":"hello"}`))
	ing.Dispatch("DMX/Value/greeting", nil)
	if len(pub.published) != 0 {
		t.Fatalf("unexpected error events: %+v", pub.published)
	}
}

func TestDispatchEffectInvalidDefinitionPublishesError(t *testing.T) {
	ing, pub := newTestIngress(t)
	ing.Dispatch("DMX/Effect/broken", []byte(`{"type":"not-a-real-type"}`))
	if len(pub.published) == 0 {
		t.Fatal("expected an error event for an invalid effect definition")
	}
}
