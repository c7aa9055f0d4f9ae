// Copyright 2024-2026 Aiku AI

package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// maxPublishResponseBytes caps how much of a publish response is read (1 MB).
const maxPublishResponseBytes = 1 << 20

// PublishResult reports one delivery to the publish API. The response body
// is informational only; callers log it and never branch on it.
type PublishResult struct {
	StatusCode int
	Body       string
}

// PostPublisher delivers assembled envelopes to the publishing collaborator.
// Create and update map to the two inbound event occurrences; updates are
// keyed by the envelope's correlation id.
type PostPublisher interface {
	PublishCreate(ctx context.Context, env *OutgoingEnvelope) (*PublishResult, error)
	PublishUpdate(ctx context.Context, env *OutgoingEnvelope) (*PublishResult, error)
}

// HTTPPublisher posts envelopes to a JSON-over-HTTP publish endpoint.
// Creation is a POST to the endpoint; an update is a PUT to
// endpoint/{correlationId}. Both carry the correlation id in an
// Idempotency-Key header as a dedup hint for the publish API. No retries
// happen at this layer.
type HTTPPublisher struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

var _ PostPublisher = (*HTTPPublisher)(nil)

// NewHTTPPublisher creates a publisher for the given endpoint.
func NewHTTPPublisher(endpoint string, log zerolog.Logger) *HTTPPublisher {
	return &HTTPPublisher{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "publisher").Logger(),
	}
}

func (p *HTTPPublisher) PublishCreate(ctx context.Context, env *OutgoingEnvelope) (*PublishResult, error) {
	return p.send(ctx, http.MethodPost, p.endpoint, env)
}

func (p *HTTPPublisher) PublishUpdate(ctx context.Context, env *OutgoingEnvelope) (*PublishResult, error) {
	return p.send(ctx, http.MethodPut, p.endpoint+"/"+url.PathEscape(env.CorrelationID), env)
}

func (p *HTTPPublisher) send(ctx context.Context, method, target string, env *OutgoingEnvelope) (*PublishResult, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", env.CorrelationID)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPublishResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read publish response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("publish endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	logEvt := p.log.Info().
		Int("status", resp.StatusCode).
		Str("correlation_id", env.CorrelationID)
	// Surface a post id when the response happens to carry one.
	if id := gjson.GetBytes(body, "id"); id.Exists() {
		logEvt = logEvt.Str("post_id", id.String())
	}
	logEvt.Msg("Successfully posted")

	return &PublishResult{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
