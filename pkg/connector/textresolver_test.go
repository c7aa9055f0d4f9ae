// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestResolveText(t *testing.T) {
	t.Parallel()
	client := &http.Client{Timeout: 5 * time.Second}

	t.Run("absent locator", func(t *testing.T) {
		t.Parallel()
		content, err := resolveText(context.Background(), client, "")
		if err != nil {
			t.Fatalf("resolveText: %v", err)
		}
		if content != "" {
			t.Errorf("content = %q, want empty", content)
		}
	})

	t.Run("fetches body", func(t *testing.T) {
		t.Parallel()
		srv := newTextServer(t, http.StatusOK, "..Title.. hello world")
		content, err := resolveText(context.Background(), client, srv.URL+"/msg.txt")
		if err != nil {
			t.Fatalf("resolveText: %v", err)
		}
		if content != "..Title.. hello world" {
			t.Errorf("content = %q", content)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		srv := newTextServer(t, http.StatusOK, "")
		content, err := resolveText(context.Background(), client, srv.URL+"/msg.txt")
		if err != nil {
			t.Fatalf("resolveText: %v", err)
		}
		if content != "" {
			t.Errorf("content = %q, want empty", content)
		}
	})

	t.Run("error status", func(t *testing.T) {
		t.Parallel()
		srv := newTextServer(t, http.StatusInternalServerError, "boom")
		if _, err := resolveText(context.Background(), client, srv.URL+"/msg.txt"); err == nil {
			t.Error("expected error for 500 response")
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()
		if _, err := resolveText(context.Background(), client, "http://127.0.0.1:1/msg.txt"); err == nil {
			t.Error("expected transport error")
		}
	})
}
