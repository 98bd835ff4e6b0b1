package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
)

// defaultEmailEndpoint is used when the settings leave the endpoint
// empty. The request shape follows the Resend send-email API.
const defaultEmailEndpoint = "https://api.resend.com/emails"

// HTTPEmailGateway delivers transactional receipt emails.
type HTTPEmailGateway struct {
	httpClient *http.Client
}

// NewHTTPEmailGateway creates an email gateway with a bounded timeout.
func NewHTTPEmailGateway() *HTTPEmailGateway {
	return &HTTPEmailGateway{
		httpClient: &http.Client{Timeout: defaultGatewayTimeout},
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the receipt email to the configured transactional endpoint.
func (g *HTTPEmailGateway) Send(ctx context.Context, cfg settings.EmailSettings, to, subject, htmlBody string) error {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEmailEndpoint
	}

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	payload, err := json.Marshal(emailPayload{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("email: encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGatewayTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("email: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
