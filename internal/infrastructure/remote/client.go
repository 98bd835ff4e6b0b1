// Package remote talks to the head-office API. The client doubles as the
// replay submitter and the connectivity probe: a request that cannot
// complete within the bounded timeout counts as offline.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the remote API (1MB)
const maxResponseSize = 1 * 1024 * 1024

// Client is an HTTP client for the head-office API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client from the remote configuration.
func NewClient(cfg *config.RemoteConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.RequestTimeout,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Submit replays one queued mutation against the remote API. The
// idempotency key lets the server drop a duplicate if an earlier attempt
// succeeded but the response was lost; a 409 from the server means
// exactly that and counts as success.
func (c *Client) Submit(ctx context.Context, method, path string, payload []byte, idempotencyKey string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusConflict {
		// the server already applied this idempotency key
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	return fmt.Errorf("remote: %s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Check probes the remote health endpoint. A nil return means online.
func (c *Client) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("remote: build probe: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: probe: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote: probe returned %d", resp.StatusCode)
	}
	return nil
}
