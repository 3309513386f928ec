// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

// Package mqttio owns the paho.mqtt.golang broker connection: connect,
// subscribe, publish, last-will, and reconnect (spec §6). It is the
// swappable transport edge; internal/broker.Ingress consumes already
// dispatched (topic, payload) pairs and never touches this package's
// types directly.
package mqttio

import (
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"dmxctl/internal/metrics"
)

// topicActive, topicVersion are the service-owned status topics (spec §6).
const (
	topicActive    = "DMX/Active"
	topicVersion   = "DMX/Version"
	subscribeTopic = "DMX/#"

	keepAlive        = 5 * time.Second
	reconnectBackoff = 10 * time.Second
)

// Config is the connection configuration handed to NewClient.
type Config struct {
	Broker   string
	ClientID string // defaults to "DMX"
	Username string
	Password string
}

// MessageHandler receives every message delivered on subscribeTopic.
type MessageHandler func(topic string, payload []byte)

// Client wraps a paho.mqtt.golang client with the service's connect
// lifecycle: last-will, retained status publishes on connect, and
// automatic reconnect on session loss. reconnectBackoff is set only as
// the interval between initial connection attempts; reconnects after a
// lost session use paho's own auto-reconnect backoff, which this client
// does not configure.
type Client struct {
	cfg     Config
	version string
	logger  *slog.Logger
	handler MessageHandler

	client mqtt.Client
}

// NewClient builds a Client. version is published retained to DMX/Version
// on every (re)connect.
func NewClient(cfg Config, version string, logger *slog.Logger, handler MessageHandler) *Client {
	if cfg.ClientID == "" {
		cfg.ClientID = "DMX"
	}
	return &Client{cfg: cfg, version: version, logger: logger, handler: handler}
}

// Start connects to the broker and blocks until the initial connection is
// up: with connect-retry enabled, failed attempts are retried every
// reconnectBackoff rather than returned. Subsequent reconnects happen in
// the background via paho's auto-reconnect plus this client's
// onConnectionLost handler.
func (c *Client) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.cfg.Broker)
	opts.SetClientID(c.cfg.ClientID)
	opts.SetKeepAlive(keepAlive)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(reconnectBackoff)
	opts.SetWill(topicActive, "false", 1, true)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	c.client = mqtt.NewClient(opts)
	token := c.client.Connect()
	token.Wait()
	return token.Error()
}

// Stop disconnects cleanly, allowing the broker to deliver the LWT
// only if the disconnect itself doesn't complete in time.
func (c *Client) Stop() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Publish(topicActive, 1, true, "false")
		c.client.Disconnect(250)
	}
}

// Publish sends payload to topic at QoS 0, optionally retained — used by
// internal/broker.Egress for DMX/Error and DMX/LastError.
func (c *Client) Publish(topic string, payload []byte, retained bool) {
	if c.client == nil || !c.client.IsConnected() {
		c.logger.Warn("mqtt publish dropped: not connected", "topic", topic)
		return
	}
	c.client.Publish(topic, 0, retained, payload)
}

func (c *Client) onConnect(client mqtt.Client) {
	c.logger.Info("mqtt connected", "broker", c.cfg.Broker, "client_id", c.cfg.ClientID)

	client.Publish(topicActive, 1, true, "true")
	client.Publish(topicVersion, 1, true, c.version)

	if token := client.Subscribe(subscribeTopic, 1, c.onMessage); token.Wait() && token.Error() != nil {
		c.logger.Error("mqtt subscribe failed", "topic", subscribeTopic, "error", token.Error())
	}
}

func (c *Client) onConnectionLost(_ mqtt.Client, err error) {
	metrics.MQTTReconnectsTotal.Inc()
	c.logger.Warn("mqtt connection lost, reconnecting", "error", err, "backoff", reconnectBackoff)
}

func (c *Client) onMessage(_ mqtt.Client, msg mqtt.Message) {
	c.handler(msg.Topic(), msg.Payload())
}
