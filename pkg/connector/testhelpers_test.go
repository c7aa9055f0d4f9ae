// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockImageHost is a scriptable ImageHost for exercising upload fan-out
// without a hosting service. Per-locator URLs, errors and delays are set up
// front; calls are recorded for assertions.
type mockImageHost struct {
	mu     sync.Mutex
	urls   map[string]string
	errs   map[string]error
	delays map[string]time.Duration
	calls  []string
}

func newMockImageHost() *mockImageHost {
	return &mockImageHost{
		urls:   make(map[string]string),
		errs:   make(map[string]error),
		delays: make(map[string]time.Duration),
	}
}

func (m *mockImageHost) Upload(ctx context.Context, locator string) (*HostedImage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, locator)
	delay := m.delays[locator]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[locator]; err != nil {
		return nil, err
	}
	if u, ok := m.urls[locator]; ok {
		return &HostedImage{PublicID: locator, SecureURL: u}, nil
	}
	return &HostedImage{PublicID: locator, SecureURL: "https://hosted.example/" + locator}, nil
}

func (m *mockImageHost) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockPublisher records delivered envelopes instead of speaking HTTP.
type mockPublisher struct {
	mu      sync.Mutex
	created []*OutgoingEnvelope
	updated []*OutgoingEnvelope
	err     error
}

func (m *mockPublisher) PublishCreate(ctx context.Context, env *OutgoingEnvelope) (*PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, env)
	return &PublishResult{StatusCode: http.StatusCreated}, nil
}

func (m *mockPublisher) PublishUpdate(ctx context.Context, env *OutgoingEnvelope) (*PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.updated = append(m.updated, env)
	return &PublishResult{StatusCode: http.StatusOK}, nil
}

// newTestConnector builds a Connector wired to mocks, bypassing
// NewConnector so tests don't need env credentials or a reachable broker.
func newTestConnector(cfg Config) (*Connector, *mockImageHost, *mockPublisher) {
	images := newMockImageHost()
	publisher := &mockPublisher{}
	c := &Connector{
		Config:      cfg,
		images:      images,
		publisher:   publisher,
		fetchClient: &http.Client{Timeout: 5 * time.Second},
		now:         func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) },
		log:         zerolog.Nop(),
	}
	return c, images, publisher
}

// newTextServer serves fixed content for text attachment fetches.
func newTextServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
