// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package artnet

import (
	"dmxctl/internal/effect"
	"dmxctl/internal/model"
)

// requestQueueDepth bounds the manager's request channel (spec §5).
const requestQueueDepth = 10

type addUniverseRequest struct {
	id    string
	def   model.UniverseDefinition
	reply chan error
}

type removeUniverseRequest struct {
	id    string
	reply chan struct{}
}

type startEffectRequest struct {
	id    string
	node  effect.Node
	reply chan struct{}
}

type stopEffectRequest struct {
	id    string
	reply chan struct{}
}

type setChannelsRequest struct {
	universeID    string
	channels      string
	target        string
	dimmingAmount int
	reply         chan error
}

type universeCountRequest struct {
	reply chan int
}
