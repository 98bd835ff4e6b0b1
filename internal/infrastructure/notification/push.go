// Package notification implements the receipt delivery gateways: push,
// transactional email, SMS and the thermal printer. Every gateway takes
// its credentials per call so a settings change applies to the next
// receipt without rewiring.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
)

// maxResponseSize caps how much of a gateway error body is read back (64KB)
const maxResponseSize = 64 * 1024

// defaultGatewayTimeout bounds every outbound notification call.
const defaultGatewayTimeout = 15 * time.Second

// HTTPPushGateway delivers push notifications to the configured endpoint
// with a bearer token.
type HTTPPushGateway struct {
	httpClient *http.Client
}

// NewHTTPPushGateway creates a push gateway with a bounded timeout.
func NewHTTPPushGateway() *HTTPPushGateway {
	return &HTTPPushGateway{
		httpClient: &http.Client{Timeout: defaultGatewayTimeout},
	}
}

type pushPayload struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts the notification to the configured push endpoint.
func (g *HTTPPushGateway) Send(ctx context.Context, cfg settings.PushSettings, to, title, body string) error {
	payload, err := json.Marshal(pushPayload{To: to, Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("push: encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGatewayTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("push: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.Token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("push: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
