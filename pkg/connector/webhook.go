// Copyright 2024-2026 Aiku AI

package connector

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// maxWebhookBodySize caps inbound webhook bodies (1 MB).
const maxWebhookBodySize = 1 << 20

// newMux builds the inbound HTTP routes.
func (c *Connector) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/messaging", c.handleWebhook)
	mux.HandleFunc("/webhooks/compat", c.handleCompatWebhook)
	mux.HandleFunc("/healthz", c.handleHealthz)
	mux.HandleFunc("/api/test-post", c.handleTestPost)
	return mux
}

// handleWebhook accepts JSON messaging events. The event is processed
// synchronously; a processing failure is reported in the response body but
// still answered with 200 so the provider does not re-deliver. One bad
// event must never wedge the webhook for the events after it.
func (c *Connector) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if secret := c.Config.Webhook.Secret; secret != "" {
		sig := r.Header.Get("X-Signature-256")
		if sig == "" {
			http.Error(w, "missing signature", http.StatusUnauthorized)
			return
		}
		if !verifySignature(body, secret, sig) {
			http.Error(w, "invalid signature", http.StatusForbidden)
			return
		}
	}

	eventType, evt, err := parseWebhookEnvelope(body)
	if err != nil {
		c.log.Warn().Err(err).Msg("Rejected webhook payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	c.log.Debug().
		Str("event_type", eventType).
		Str("message_id", evt.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("Webhook event received")

	if err := c.handleEvent(r.Context(), eventType, evt); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleCompatWebhook accepts classic form-encoded SMS/MMS provider
// callbacks and treats every callback as a message.received event.
func (c *Connector) handleCompatWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	evt := parseCompatForm(r.PostForm)
	c.log.Debug().
		Str("message_id", evt.ID).
		Str("remote_addr", r.RemoteAddr).
		Int("media_count", len(evt.Media)).
		Msg("Compat webhook received")

	if err := c.handleEvent(r.Context(), EventMessageReceived, evt); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (c *Connector) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTestPost assembles and delivers a canned post so a deployment can
// be smoke-tested end to end without a messaging provider.
func (c *Connector) handleTestPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	evt := &IncomingEvent{
		ID:   uuid.NewString(),
		From: "Bobby",
		To:   "test",
		Body: "Somebody looked at the page",
	}
	if err := c.handleMessageReceived(r.Context(), evt); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "delivered",
		"correlation_id": evt.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// verifySignature checks the HMAC-SHA256 signature of the body against the
// shared webhook secret.
func verifySignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
