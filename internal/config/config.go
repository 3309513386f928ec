// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTickInterval is the Art-Net Manager's 50 ms tick, 20 Hz (spec §4.2).
const DefaultTickInterval = 50 * time.Millisecond

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for missing config.
func (c *Config) applyDefaults() {
	if c.Server.HTTP == "" {
		c.Server.HTTP = ":8080"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "DMX"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q is not one of debug|info|warn|error", c.Log.Level)
	}
	if c.Tick.IntervalMs < 0 {
		return fmt.Errorf("tick.interval_ms must not be negative, got %d", c.Tick.IntervalMs)
	}
	return nil
}

// TickInterval returns the configured tick interval, or DefaultTickInterval
// if the config did not override it.
func (c *Config) TickInterval() time.Duration {
	if c.Tick.IntervalMs <= 0 {
		return DefaultTickInterval
	}
	return time.Duration(c.Tick.IntervalMs) * time.Millisecond
}
