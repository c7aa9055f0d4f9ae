// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// maxUploadResponseBytes caps how much of a hosting API response is read (1 MB).
const maxUploadResponseBytes = 1 << 20

// HostedImage is the durable hosting result for one uploaded image.
type HostedImage struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// ImageHost uploads an image locator to a hosting service and returns a
// durable URL for it. Implementations may be called concurrently.
type ImageHost interface {
	Upload(ctx context.Context, locator string) (*HostedImage, error)
}

// CloudinaryHost uploads images to a Cloudinary-compatible REST endpoint
// using signed uploads. The hosting service fetches the image from the
// locator URL itself, so no media bytes pass through the bridge.
type CloudinaryHost struct {
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client

	now func() time.Time
}

var _ ImageHost = (*CloudinaryHost)(nil)

// NewCloudinaryHost creates an image host client from hosting config.
func NewCloudinaryHost(cfg HostingConfig) *CloudinaryHost {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	return &CloudinaryHost{
		baseURL:   strings.TrimSuffix(base, "/"),
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

// Upload sends one locator to the hosting API. An empty locator resolves to
// an empty result without a remote call.
func (c *CloudinaryHost) Upload(ctx context.Context, locator string) (*HostedImage, error) {
	if locator == "" {
		return &HostedImage{}, nil
	}

	ts := strconv.FormatInt(c.now().Unix(), 10)
	form := url.Values{}
	form.Set("file", locator)
	form.Set("timestamp", ts)
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(ts))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hosting API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var hosted HostedImage
	if err := json.Unmarshal(body, &hosted); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &hosted, nil
}

// sign computes the request signature: the SHA-1 hex digest of the signed
// parameter string followed by the API secret.
func (c *CloudinaryHost) sign(timestamp string) string {
	sum := sha1.Sum([]byte("timestamp=" + timestamp + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// UploadResult pairs an image locator with its hosting outcome. The result
// slice returned by uploadImages keeps the input ordering regardless of
// upload completion order.
type UploadResult struct {
	Locator string
	Hosted  *HostedImage
	Err     error
}

// uploadImages fans out one upload per locator, bounded by the configured
// concurrency limit, and waits for all of them. Failures stay local to their
// locator: a failed or timed-out upload never aborts its siblings.
func (c *Connector) uploadImages(ctx context.Context, locators []string) []UploadResult {
	results := make([]UploadResult, len(locators))
	sem := semaphore.NewWeighted(int64(c.maxConcurrentUploads()))

	var wg sync.WaitGroup
	for i, loc := range locators {
		i, loc := i, loc
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i].Locator = loc

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Err = fmt.Errorf("failed to upload %s: %w", loc, err)
				return
			}
			defer sem.Release(1)

			uploadCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout())
			defer cancel()

			hosted, err := c.images.Upload(uploadCtx, loc)
			if err != nil {
				results[i].Err = fmt.Errorf("failed to upload %s: %w", loc, err)
				return
			}
			results[i].Hosted = hosted
		}()
	}
	wg.Wait()

	return results
}
