// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package artnet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dmxctl/internal/effect"
	"dmxctl/internal/metrics"
	"dmxctl/internal/model"
)

// TickInterval is the Art-Net tick period: 50ms, 20Hz (spec §4.2).
const TickInterval = 50 * time.Millisecond

// Manager owns universes and controller sockets and drives the tick loop
// that advances active effects and transmits DMX frames (spec §4.2, §5).
// Like Array Manager it is a closed loop over a typed request channel; its
// own tick timer is serviced by the same select, so no universe or
// controller state is ever touched from more than one goroutine.
type Manager struct {
	requests chan any
	logger   *slog.Logger
	errorSink func(error)

	tickInterval time.Duration
	universes    map[string]*universe
	controllers  map[string]*controller
	activeEffects map[string]effect.Node
}

// errorSink receives runtime errors for publication to the broker egress
// (spec §7 "Runtime errors"); nil is treated as a no-op sink.
func NewManager(logger *slog.Logger, errorSink func(error)) *Manager {
	if errorSink == nil {
		errorSink = func(error) {}
	}
	return &Manager{
		requests:      make(chan any, requestQueueDepth),
		logger:        logger,
		errorSink:     errorSink,
		tickInterval:  TickInterval,
		universes:     make(map[string]*universe),
		controllers:   make(map[string]*controller),
		activeEffects: make(map[string]effect.Node),
	}
}

// SetTickInterval overrides the default 50ms tick period; must be called
// before Run. main.go calls it with config.Config.TickInterval().
func (m *Manager) SetTickInterval(d time.Duration) {
	if d > 0 {
		m.tickInterval = d
	}
}

// Run services requests and ticks until ctx is cancelled. Cancellation is
// observed only between ticks, never mid-send (spec §5 "Cancellation").
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAllControllers()
			return
		case req := <-m.requests:
			m.handle(req)
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Manager) handle(req any) {
	switch r := req.(type) {
	case addUniverseRequest:
		r.reply <- m.addUniverse(r.id, r.def)
	case removeUniverseRequest:
		m.removeUniverse(r.id)
		close(r.reply)
	case startEffectRequest:
		m.activeEffects[r.id] = r.node
		close(r.reply)
	case stopEffectRequest:
		delete(m.activeEffects, r.id)
		close(r.reply)
	case setChannelsRequest:
		r.reply <- m.setChannels(r.universeID, r.channels, r.target, r.dimmingAmount)
	case universeCountRequest:
		r.reply <- len(m.universes)
	default:
		m.logger.Warn("art-net manager: unknown request type")
	}
}

func (m *Manager) send(req any) {
	m.requests <- req
}

func (m *Manager) AddUniverse(id string, def model.UniverseDefinition) error {
	reply := make(chan error, 1)
	m.send(addUniverseRequest{id: id, def: def, reply: reply})
	return <-reply
}

func (m *Manager) RemoveUniverse(id string) {
	reply := make(chan struct{})
	m.send(removeUniverseRequest{id: id, reply: reply})
	<-reply
}

// StartEffect installs node under id, replacing whatever effect was
// already running under that id (spec §3 invariant: "at most one active
// effect runtime per effect identifier").
func (m *Manager) StartEffect(id string, node effect.Node) {
	reply := make(chan struct{})
	m.send(startEffectRequest{id: id, node: node, reply: reply})
	<-reply
}

func (m *Manager) StopEffect(id string) {
	reply := make(chan struct{})
	m.send(stopEffectRequest{id: id, reply: reply})
	<-reply
}

// SetChannels implements the `DMX/Command/Set` direct write (spec §4.4).
func (m *Manager) SetChannels(universeID, channels, target string, dimmingAmount int) error {
	reply := make(chan error, 1)
	m.send(setChannelsRequest{universeID: universeID, channels: channels, target: target, dimmingAmount: dimmingAmount, reply: reply})
	return <-reply
}

// SetChannel and GetChannel implement effect.ChannelWriter. They are called
// only from within the tick loop — by m.tick() ticking active effects — so
// they never race with handle() or with each other.
func (m *Manager) SetChannel(universeID string, def model.ChannelDefinition, value model.DimmerValue) error {
	u, ok := m.universes[universeID]
	if !ok {
		return &NotFoundError{Kind: "universe", ID: universeID}
	}
	return u.setChannel(def, value)
}

func (m *Manager) GetChannel(universeID string, def model.ChannelDefinition) (model.DimmerValue, error) {
	u, ok := m.universes[universeID]
	if !ok {
		return model.DimmerValue{}, &NotFoundError{Kind: "universe", ID: universeID}
	}
	return u.getChannel(def)
}

// UniverseCount reports the number of currently installed universes, for
// the status server's diagnostic endpoint.
func (m *Manager) UniverseCount() int {
	reply := make(chan int, 1)
	m.send(universeCountRequest{reply: reply})
	return <-reply
}

func (m *Manager) addUniverse(id string, def model.UniverseDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	ctrl, err := m.acquireController(def.ControllerIP)
	if err != nil {
		return err
	}
	m.universes[id] = newUniverse(id, def, ctrl)
	metrics.UniversesTotal.Set(float64(len(m.universes)))
	return nil
}

func (m *Manager) removeUniverse(id string) {
	u, ok := m.universes[id]
	if !ok {
		return
	}
	delete(m.universes, id)
	metrics.UniversesTotal.Set(float64(len(m.universes)))
	m.releaseController(u.controller)
}

func (m *Manager) acquireController(ip string) (*controller, error) {
	if c, ok := m.controllers[ip]; ok {
		c.refCount++
		return c, nil
	}
	c, err := newController(ip)
	if err != nil {
		return nil, err
	}
	c.refCount = 1
	m.controllers[ip] = c
	return c, nil
}

func (m *Manager) releaseController(c *controller) {
	c.refCount--
	if c.refCount <= 0 {
		if err := c.close(); err != nil {
			m.logger.Warn("closing controller socket", "controller_ip", c.ip, "error", err)
		}
		delete(m.controllers, c.ip)
	}
}

func (m *Manager) closeAllControllers() {
	for ip, c := range m.controllers {
		if err := c.close(); err != nil {
			m.logger.Warn("closing controller socket", "controller_ip", ip, "error", err)
		}
	}
}

func (m *Manager) setChannels(universeID, channelsExpr, targetExpr string, dimmingAmount int) error {
	u, ok := m.universes[universeID]
	if !ok {
		return &NotFoundError{Kind: "universe", ID: universeID}
	}

	targetValue, err := model.ParseTargetValue(targetExpr)
	if err != nil {
		return err
	}
	scaled := targetValue.Scale(dimmingAmount)

	var defs []model.ChannelDefinition
	for _, entry := range splitChannelsExpr(channelsExpr) {
		def, err := model.ParseLightEntryForm(entry)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	}

	for _, def := range defs {
		dv, err := scaled.ForKind(def.Kind)
		if err != nil {
			return err
		}
		if err := u.setChannel(def, dv); err != nil {
			return err
		}
	}
	return nil
}

// splitChannelsExpr splits a `DMX/Command/Set` channels list — a bare
// comma-separated list of light-entry forms, e.g. "rgb:0,s:5" (spec §4.4,
// scenario S7) — with no @group or $uid switches; those only make sense
// inside an array's declared lights groups.
func splitChannelsExpr(expr string) []string {
	var entries []string
	for _, raw := range strings.Split(expr, ",") {
		entry := strings.TrimSpace(raw)
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// tick advances every active effect by one tick, then transmits every
// universe per the modified/unmodified policy (spec §4.2 steps 1-2).
func (m *Manager) tick() {
	start := time.Now()
	defer func() { metrics.ObserveTick(time.Since(start)) }()

	active := m.activeEffects
	m.activeEffects = make(map[string]effect.Node, len(active))
	for id, node := range active {
		if err := node.Tick(m); err != nil {
			m.errorSink(err)
			continue
		}
		if !node.Done() {
			m.activeEffects[id] = node
		}
	}
	metrics.ActiveEffects.Set(float64(len(m.activeEffects)))

	for _, u := range m.universes {
		m.transmitIfDue(u)
	}
}

func (m *Manager) transmitIfDue(u *universe) {
	if u.modified {
		m.transmit(u)
		u.modified = false
		u.nonModifiedTicks = 0
		return
	}
	u.nonModifiedTicks++
	if u.nonModifiedTicks >= sendUnmodifiedEvery {
		m.transmit(u)
		u.nonModifiedTicks = 0
	}
}

func (m *Manager) transmit(u *universe) {
	packet := u.buildPacket()
	if err := u.controller.send(packet); err != nil {
		m.errorSink(err)
		return
	}
	metrics.PacketsSentTotal.WithLabelValues(u.id).Inc()
}
