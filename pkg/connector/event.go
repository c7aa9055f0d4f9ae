// Copyright 2024-2026 Aiku AI

package connector

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Webhook event types delivered by the messaging collaborator.
const (
	EventMessageReceived = "message.received"
	EventMessageUpdated  = "message.updated"
)

// IncomingEvent is one normalized inbound messaging notification. It is
// created per handler invocation and never outlives it.
type IncomingEvent struct {
	// ID is the provider's message id, used as the correlation id for
	// update-semantics delivery.
	ID    string
	From  string
	To    string
	Body  string
	Media []string
}

// Post is the normalized outcome of one inbound message.
type Post struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

// OutgoingEnvelope wraps a Post with the metadata the publish API needs.
// This is the unit handed to the publish collaborator.
type OutgoingEnvelope struct {
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Media            []string  `json:"media"`
	Author           string    `json:"author"`
	RecipientContext string    `json:"recipientContext"`
	CorrelationID    string    `json:"correlationId"`
	Date             time.Time `json:"date"`
}

// webhookEnvelope is the JSON body of POST /webhooks/messaging.
type webhookEnvelope struct {
	EventType string        `json:"event_type"`
	Params    webhookParams `json:"params"`
}

type webhookParams struct {
	MessageID  string   `json:"message_id"`
	FromNumber string   `json:"from_number"`
	ToNumber   string   `json:"to_number"`
	Body       string   `json:"body"`
	Media      []string `json:"media"`
}

// parseWebhookEnvelope decodes and validates an inbound webhook body.
// Events arriving without a message id get a generated one so update
// correlation still has something to key on.
func parseWebhookEnvelope(body []byte) (eventType string, evt *IncomingEvent, err error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	switch env.EventType {
	case EventMessageReceived, EventMessageUpdated:
	default:
		return "", nil, fmt.Errorf("unsupported event type %q", env.EventType)
	}

	evt = &IncomingEvent{
		ID:    env.Params.MessageID,
		From:  env.Params.FromNumber,
		To:    env.Params.ToNumber,
		Body:  env.Params.Body,
		Media: env.Params.Media,
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	return env.EventType, evt, nil
}

// parseCompatForm maps a form-encoded provider callback (MessageSid, From,
// To, Body, NumMedia, MediaUrl0..N) to a message.received event. This is the
// transport classic SMS/MMS webhook providers deliver.
func parseCompatForm(form url.Values) *IncomingEvent {
	evt := &IncomingEvent{
		ID:   form.Get("MessageSid"),
		From: form.Get("From"),
		To:   form.Get("To"),
		Body: form.Get("Body"),
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	numMedia, _ := strconv.Atoi(form.Get("NumMedia"))
	for i := 0; i < numMedia; i++ {
		if u := form.Get("MediaUrl" + strconv.Itoa(i)); u != "" {
			evt.Media = append(evt.Media, u)
		}
	}
	return evt
}
