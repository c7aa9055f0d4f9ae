// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Routing keys for mirrored envelopes.
const (
	routingKeyCreated = "post.created"
	routingKeyUpdated = "post.updated"
)

// envelopePublisher is the subset of the AMQP channel API the mirror needs.
// It exists so tests can substitute a fake channel.
type envelopePublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Mirror fans assembled envelopes out to a durable topic exchange in
// addition to the primary HTTP delivery. It is best-effort: delivery to the
// publish API never depends on the mirror, and mirror failures are logged
// by the caller rather than propagated to the event source.
type Mirror struct {
	ch       envelopePublisher
	conn     io.Closer
	exchange string
	log      zerolog.Logger
}

// NewMirror connects to the broker and declares the target exchange.
func NewMirror(cfg MirrorConfig, log zerolog.Logger) (*Mirror, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.Exchange, err)
	}

	return &Mirror{
		ch:       ch,
		conn:     conn,
		exchange: cfg.Exchange,
		log:      log.With().Str("component", "mirror").Logger(),
	}, nil
}

// Publish mirrors one envelope under the given routing key. The AMQP
// correlation id carries the envelope's correlation id so consumers can
// match created/updated pairs.
func (m *Mirror) Publish(ctx context.Context, key string, env *OutgoingEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	err = m.ch.PublishWithContext(ctx, m.exchange, key, false, false, amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: env.CorrelationID,
		Timestamp:     env.Date,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %q: %w", m.exchange, err)
	}

	m.log.Debug().
		Str("key", key).
		Str("exchange", m.exchange).
		Str("correlation_id", env.CorrelationID).
		Msg("Mirrored envelope")
	return nil
}

// Close closes the channel and the broker connection.
func (m *Mirror) Close() error {
	if m.ch != nil {
		_ = m.ch.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
