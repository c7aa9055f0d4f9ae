// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
)

// handleEvent dispatches a webhook event to the appropriate handler.
func (c *Connector) handleEvent(ctx context.Context, eventType string, evt *IncomingEvent) error {
	switch eventType {
	case EventMessageReceived:
		return c.handleMessageReceived(ctx, evt)
	case EventMessageUpdated:
		return c.handleMessageUpdated(ctx, evt)
	default:
		c.log.Trace().Str("event_type", eventType).Msg("Unhandled event type")
		return nil
	}
}

// handleMessageReceived assembles and delivers a post for a newly created
// message. Failures are returned to the webhook boundary for logging; they
// are terminal for this event and never retried here.
func (c *Connector) handleMessageReceived(ctx context.Context, evt *IncomingEvent) error {
	log := c.log.With().
		Str("message_id", evt.ID).
		Str("from", evt.From).
		Logger()
	log.Debug().Int("media_count", len(evt.Media)).Msg("Received new message")

	post, err := c.assemblePost(ctx, evt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble post")
		return err
	}

	env := buildEnvelope(post, evt, c.now())
	result, err := c.publisher.PublishCreate(ctx, env)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deliver post")
		return err
	}
	log.Info().Int("status", result.StatusCode).Msg("Post delivered")

	c.mirrorEnvelope(ctx, routingKeyCreated, env)
	return nil
}

// handleMessageUpdated re-assembles the post for an updated message and
// delivers it with update semantics keyed by the correlation id.
func (c *Connector) handleMessageUpdated(ctx context.Context, evt *IncomingEvent) error {
	log := c.log.With().
		Str("message_id", evt.ID).
		Str("from", evt.From).
		Logger()
	log.Debug().Int("media_count", len(evt.Media)).Msg("Received message update")

	post, err := c.assemblePost(ctx, evt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble updated post")
		return err
	}

	env := buildEnvelope(post, evt, c.now())
	result, err := c.publisher.PublishUpdate(ctx, env)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deliver post update")
		return err
	}
	log.Info().Int("status", result.StatusCode).Msg("Post update delivered")

	c.mirrorEnvelope(ctx, routingKeyUpdated, env)
	return nil
}

// mirrorEnvelope publishes the envelope to the mirror exchange when one is
// configured. Mirror failures never affect the primary delivery outcome.
func (c *Connector) mirrorEnvelope(ctx context.Context, key string, env *OutgoingEnvelope) {
	if c.mirror == nil {
		return
	}
	if err := c.mirror.Publish(ctx, key, env); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to mirror envelope")
	}
}
