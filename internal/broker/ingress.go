// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package broker

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"dmxctl/internal/array"
	"dmxctl/internal/artnet"
	"dmxctl/internal/metrics"
	"dmxctl/internal/model"
)

// Ingress parses DMX/<category>/<id> topics and dispatches requests to
// the Array and Art-Net Managers, forwarding any error to Egress (spec
// §4.4). It holds no state of its own beyond the two manager handles.
type Ingress struct {
	arrayMgr  *array.Manager
	artnetMgr *artnet.Manager
	egress    *Egress
	logger    *slog.Logger
}

func NewIngress(arrayMgr *array.Manager, artnetMgr *artnet.Manager, egress *Egress, logger *slog.Logger) *Ingress {
	return &Ingress{arrayMgr: arrayMgr, artnetMgr: artnetMgr, egress: egress, logger: logger}
}

// Dispatch handles one already-deserialized (topic, payload) pair, as
// delivered by mqttio's subscription to DMX/#. Service-owned topics
// (Error/LastError/Active/Version) and anything not shaped like
// DMX/<category>/<id> are silently ignored, per spec §4.4.
func (i *Ingress) Dispatch(topic string, payload []byte) {
	parsed, ok := ParseTopic(topic)
	if !ok {
		return
	}

	var err error
	switch parsed.Category {
	case CategoryUniverse:
		err = i.handleUniverse(parsed.ID, payload)
	case CategoryArray:
		err = i.handleArray(parsed.ID, payload)
	case CategoryEffect:
		err = i.handleEffect(parsed.ID, payload)
	case CategoryValue:
		err = i.handleValue(parsed.ID, payload)
	case CategoryCommand:
		err = i.handleCommand(parsed.ID, payload)
	default:
		return
	}

	if err != nil {
		i.logger.Warn("broker ingress request failed", "topic", topic, "error", err)
		metrics.ErrorsTotal.WithLabelValues(errorKind(parsed.Category)).Inc()
		i.egress.PublishError(fmt.Errorf("%s: %w", topic, err))
	}
}

func errorKind(c Category) string {
	if c == CategoryCommand {
		return "runtime"
	}
	return "declaration"
}

func (i *Ingress) handleUniverse(id string, payload []byte) error {
	metrics.CommandsTotal.WithLabelValues("universe").Inc()
	if len(payload) == 0 {
		i.artnetMgr.RemoveUniverse(id)
		return nil
	}
	var def model.UniverseDefinition
	if err := json.Unmarshal(payload, &def); err != nil {
		return fmt.Errorf("parsing universe definition: %w", err)
	}
	return i.artnetMgr.AddUniverse(id, def)
}

func (i *Ingress) handleArray(id string, payload []byte) error {
	metrics.CommandsTotal.WithLabelValues("array").Inc()
	if len(payload) == 0 {
		i.arrayMgr.RemoveArray(id)
		return nil
	}
	var arr model.DmxArray
	if err := json.Unmarshal(payload, &arr); err != nil {
		return fmt.Errorf("parsing array declaration: %w", err)
	}
	arr.ID = id
	return i.arrayMgr.AddArray(&arr)
}

func (i *Ingress) handleEffect(id string, payload []byte) error {
	metrics.CommandsTotal.WithLabelValues("effect").Inc()
	if len(payload) == 0 {
		i.arrayMgr.RemoveGlobalEffect(id)
		return nil
	}
	var def model.EffectNodeDefinition
	if err := json.Unmarshal(payload, &def); err != nil {
		return fmt.Errorf("parsing effect definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return err
	}
	i.arrayMgr.SetGlobalEffect(id, def)
	return nil
}

func (i *Ingress) handleValue(name string, payload []byte) error {
	metrics.CommandsTotal.WithLabelValues("value").Inc()
	if len(payload) == 0 {
		i.arrayMgr.RemoveGlobalValue(name)
		return nil
	}
	var v ValuePayload
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("parsing value declaration: %w", err)
	}
	i.arrayMgr.SetGlobalValue(name, v.Value)
	return nil
}

func (i *Ingress) handleCommand(name string, payload []byte) error {
	metrics.CommandsTotal.WithLabelValues("command_" + name).Inc()
	switch name {
	case CommandOn:
		return i.handleUsageCommand(model.UsageOn, payload)
	case CommandOff:
		return i.handleUsageCommand(model.UsageOff, payload)
	case CommandDim:
		return i.handleUsageCommand(model.UsageDim, payload)
	case CommandStop:
		return i.handleStop(payload)
	case CommandSet:
		return i.handleSet(payload)
	default:
		return &UnknownCommandError{Name: name}
	}
}

func (i *Ingress) handleUsageCommand(usage model.Usage, payload []byte) error {
	var cmd CommandPayload
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("parsing %s command: %w", usage, err)
	}

	if cmd.Values != nil {
		if err := i.arrayMgr.InitializeArrayValues(cmd.ArrayID, cmd.Values); err != nil {
			return err
		}
	}

	node, err := i.arrayMgr.GetEffectRuntime(cmd.ArrayID, usage, cmd.EffectID, cmd.dimmingAmountOr())
	if err != nil {
		return err
	}
	i.artnetMgr.StartEffect(cmd.ArrayID, node)
	return nil
}

func (i *Ingress) handleStop(payload []byte) error {
	var cmd StopPayload
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("parsing stop command: %w", err)
	}
	i.artnetMgr.StopEffect(cmd.ArrayID)
	return nil
}

func (i *Ingress) handleSet(payload []byte) error {
	var cmd SetPayload
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("parsing set command: %w", err)
	}
	return i.artnetMgr.SetChannels(cmd.UniverseID, cmd.Channels, cmd.Target, cmd.dimmingAmountOr())
}
