// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dmxctl/internal/array"
	"dmxctl/internal/artnet"
	"dmxctl/internal/broker"
	"dmxctl/internal/config"
	"dmxctl/internal/mqttio"
	"dmxctl/internal/statusserver"
)

const version = "1.0.0"

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
		logLevel   = flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR), overrides config")
		dryRun     = flag.Bool("dry-run", false, "Validate config and exit")
	)
	flag.Parse()
	brokerAddr := flag.Arg(0) // optional positional MQTT broker address, overrides config

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}
	if brokerAddr != "" {
		cfg.MQTT.Broker = brokerAddr
	}

	level := cfg.Log.Level
	if *logLevel != "" {
		level = strings.ToLower(*logLevel)
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Info("dmx controller starting", "version", version)

	if *dryRun {
		logger.Info("dry run mode - configuration is valid")
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	arrayMgr := array.NewManager(logger)
	go arrayMgr.Run(ctx)

	// ingress is assigned after mqttClient exists; the handler closure below
	// only runs once Start() has connected, well after that assignment.
	var ingress *broker.Ingress
	mqttClient := mqttio.NewClient(mqttio.Config{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
	}, version, logger, func(topic string, payload []byte) { ingress.Dispatch(topic, payload) })

	egress := broker.NewEgress(mqttClient, logger)
	errorSink := func(err error) {
		logger.Warn("runtime error", "error", err)
		egress.PublishError(err)
	}

	artnetMgr := artnet.NewManager(logger, errorSink)
	artnetMgr.SetTickInterval(cfg.TickInterval())
	go artnetMgr.Run(ctx)

	ingress = broker.NewIngress(arrayMgr, artnetMgr, egress, logger)

	if err := mqttClient.Start(); err != nil {
		logger.Error("failed to start mqtt client", "error", err)
		os.Exit(1)
	}

	status := statusserver.NewServer(cfg.Server.HTTP, statusserver.Counters{
		Arrays:    arrayMgr.Dump,
		Universes: artnetMgr.UniverseCount,
	}, logger)
	status.Start()

	logger.Info("dmx controller ready", "broker", cfg.MQTT.Broker, "http", cfg.Server.HTTP)

	<-ctx.Done()

	logger.Info("initiating graceful shutdown")

	mqttClient.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := status.Shutdown(shutdownCtx); err != nil {
		logger.Error("status server shutdown error", "error", err)
	}

	logger.Info("dmx controller stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
