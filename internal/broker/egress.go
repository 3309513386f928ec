// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package broker

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher is the subset of mqttio.Client Egress needs: publish a
// payload to a topic, optionally retained.
type Publisher interface {
	Publish(topic string, payload []byte, retained bool)
}

// Egress serializes error events and publishes them to DMX/Error
// (fan-out) and DMX/LastError (retained), per spec §7 "Runtime errors
// ... reported via the egress publisher".
type Egress struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewEgress(publisher Publisher, logger *slog.Logger) *Egress {
	return &Egress{publisher: publisher, logger: logger}
}

// PublishError reports err as a {time, message, id} event. id is a
// random v4 uuid so a consumer can deduplicate repeated publishes of the
// same underlying fault without parsing the message string.
func (e *Egress) PublishError(err error) {
	event := ErrorEvent{
		Time:    time.Now().UTC().Format(time.RFC3339),
		Message: err.Error(),
		ID:      uuid.NewString(),
	}

	data, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		e.logger.Error("failed to marshal error event", "error", marshalErr)
		return
	}

	e.publisher.Publish(TopicError, data, false)
	e.publisher.Publish(TopicLastError, data, true)
}
