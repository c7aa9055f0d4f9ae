// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Connector wires the messaging intake to the publishing pipeline: it
// receives webhook events, assembles posts, and hands the resulting
// envelopes to the publish collaborator. All per-event state lives in the
// handler invocation; the Connector itself holds only configuration and
// collaborator clients.
type Connector struct {
	Config Config

	images      ImageHost
	publisher   PostPublisher
	mirror      *Mirror
	fetchClient *http.Client
	server      *http.Server

	now func() time.Time
	log zerolog.Logger
}

// NewConnector builds a Connector with production collaborators from config.
func NewConnector(cfg Config, log zerolog.Logger) (*Connector, error) {
	if err := cfg.PostProcess(); err != nil {
		return nil, fmt.Errorf("failed to post-process config: %w", err)
	}

	c := &Connector{
		Config:      cfg,
		images:      NewCloudinaryHost(cfg.Hosting),
		publisher:   NewHTTPPublisher(cfg.Publish.Endpoint, log),
		fetchClient: &http.Client{Timeout: 30 * time.Second},
		now:         time.Now,
		log:         log.With().Str("component", "connector").Logger(),
	}

	if cfg.Mirror.Enabled {
		mirror, err := NewMirror(cfg.Mirror, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect envelope mirror: %w", err)
		}
		c.mirror = mirror
	}
	return c, nil
}

// Start runs the webhook HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (c *Connector) Start(ctx context.Context) error {
	addr := c.Config.ListenAddr
	if addr == "" {
		addr = ":3001"
	}

	c.server = &http.Server{
		Addr:              addr,
		Handler:           c.newMux(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	c.log.Info().Str("addr", addr).Msg("Starting webhook server")

	errCh := make(chan error, 1)
	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		c.log.Info().Msg("Webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := c.server.Shutdown(shutdownCtx)
		if c.mirror != nil {
			if closeErr := c.mirror.Close(); closeErr != nil {
				c.log.Warn().Err(closeErr).Msg("Failed to close envelope mirror")
			}
		}
		return err
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (c *Connector) maxConcurrentUploads() int {
	if n := c.Config.Media.MaxConcurrentUploads; n > 0 {
		return n
	}
	return 4
}

func (c *Connector) uploadTimeout() time.Duration {
	if s := c.Config.Media.UploadTimeout; s > 0 {
		return time.Duration(s) * time.Second
	}
	return 30 * time.Second
}

func (c *Connector) textFetchTimeout() time.Duration {
	if s := c.Config.Media.TextFetchTimeout; s > 0 {
		return time.Duration(s) * time.Second
	}
	return 15 * time.Second
}
