// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxTextAttachmentBytes caps how much of a text attachment is read (1 MB).
const maxTextAttachmentBytes = 1 << 20

// resolveText fetches the content of a text attachment. An absent locator
// resolves to empty content without a network call, and a fetch that
// succeeds with an empty body also yields empty content. Transport and HTTP
// errors propagate to the caller; they are never masked as empty content.
func resolveText(ctx context.Context, client *http.Client, locator string) (string, error) {
	if locator == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build text attachment request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch text attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("text attachment fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextAttachmentBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read text attachment: %w", err)
	}
	return string(body), nil
}
