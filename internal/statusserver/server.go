// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

// Package statusserver exposes the Prometheus scrape endpoint and a
// diagnostic health check over plain HTTP. It carries no DMX wire surface
// of its own — arrays, effects and universes are declared and commanded
// exclusively over MQTT (spec §4.4) — this is ambient observability only.
package statusserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dmxctl/internal/array"
)

var startTime = time.Now()

// Counters is the subset of Array/Art-Net Manager state the health
// endpoint reports. Arrays is the Array Manager's full diagnostic
// Dump() (spec §4.1 "Supplementary feature"), from which /healthz
// derives a count; Universes is a plain closure over *artnet.Manager
// since the Art-Net Manager has no equivalent dump.
type Counters struct {
	Arrays    func() array.Dump
	Universes func() int
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	UptimeSec  int    `json:"uptime_sec"`
	UptimeStr  string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
	Arrays     int    `json:"arrays"`
	Universes  int    `json:"universes"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`
}

// Server serves /metrics (promhttp) and /healthz on cfg.Server.HTTP.
type Server struct {
	addr     string
	counters Counters
	logger   *slog.Logger
	server   *http.Server
}

func NewServer(addr string, counters Counters, logger *slog.Logger) *Server {
	s := &Server{addr: addr, counters: counters, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Start launches the server in the background. Bind failures are logged,
// not returned: a status-endpoint outage must never take the gateway's
// MQTT/Art-Net path down with it.
func (s *Server) Start() {
	s.logger.Info("starting status server", "addr", s.addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("status server error", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP lets tests exercise the mux without binding a real listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dump := s.counters.Arrays()
	health := HealthResponse{
		UptimeSec:  int(time.Since(startTime).Seconds()),
		UptimeStr:  time.Since(startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Arrays:     len(dump.Arrays),
		Universes:  s.counters.Universes(),
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
