// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsSentTotal counts Art-Net ArtDMX packets transmitted, by
	// universe id.
	PacketsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmx_packets_sent_total",
			Help: "Total Art-Net DMX packets transmitted",
		},
		[]string{"universe_id"},
	)

	// TickDuration measures how long one Art-Net Manager tick took to
	// advance active effects and transmit universes.
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dmx_tick_duration_seconds",
			Help:    "Time spent advancing effects and transmitting within one tick",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10),
		},
	)

	// ActiveEffects is the current count of running effect runtimes.
	ActiveEffects = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dmx_active_effects",
			Help: "Number of effect runtimes currently ticking",
		},
	)

	// UniversesTotal is the current count of declared universes.
	UniversesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dmx_universes",
			Help: "Number of declared Art-Net universes",
		},
	)

	// ArraysTotal is the current count of declared arrays.
	ArraysTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dmx_arrays",
			Help: "Number of declared DMX arrays",
		},
	)

	// CommandsTotal counts broker commands by topic category.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmx_commands_total",
			Help: "Total broker commands processed, by category",
		},
		[]string{"category"},
	)

	// ErrorsTotal counts errors surfaced to the broker egress, by
	// taxonomy (spec §7: declaration|runtime|transport).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmx_errors_total",
			Help: "Total errors by taxonomy",
		},
		[]string{"kind"},
	)

	// MQTTReconnectsTotal counts MQTT session reconnects.
	MQTTReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dmx_mqtt_reconnects_total",
			Help: "Total MQTT reconnect attempts after a lost session",
		},
	)
)

// ObserveTick records how long a single tick's work took.
func ObserveTick(elapsed time.Duration) {
	TickDuration.Observe(elapsed.Seconds())
}
