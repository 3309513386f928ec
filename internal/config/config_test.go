// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultValues(t *testing.T) {
	cfg := loadFromString(t, `
mqtt:
  broker: "tcp://localhost:1883"
`)

	if cfg.Server.HTTP != ":8080" {
		t.Errorf("expected default http :8080, got %s", cfg.Server.HTTP)
	}
	if cfg.MQTT.ClientID != "DMX" {
		t.Errorf("expected default client id DMX, got %s", cfg.MQTT.ClientID)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.TickInterval() != DefaultTickInterval {
		t.Errorf("expected default tick interval %s, got %s", DefaultTickInterval, cfg.TickInterval())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg := loadFromString(t, `
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "test-client"
server:
  http: ":9090"
log:
  level: "debug"
tick:
  interval_ms: 10
`)

	if cfg.MQTT.ClientID != "test-client" {
		t.Errorf("expected client id test-client, got %s", cfg.MQTT.ClientID)
	}
	if cfg.Server.HTTP != ":9090" {
		t.Errorf("expected http :9090, got %s", cfg.Server.HTTP)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.TickInterval() != 10*time.Millisecond {
		t.Errorf("expected tick interval 10ms, got %s", cfg.TickInterval())
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	_, err := loadFromStringErr(`
log:
  level: "verbose"
`)
	if err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestValidateRejectsNegativeTickInterval(t *testing.T) {
	_, err := loadFromStringErr(`
tick:
  interval_ms: -1
`)
	if err == nil {
		t.Error("expected error for negative tick interval")
	}
}

// Helper functions

func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := loadFromStringErr(yaml)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func loadFromStringErr(yaml string) (*Config, error) {
	dir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		return nil, err
	}

	return Load(path)
}
