package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
)

// smsRequestBuilder builds the provider-specific HTTP request for one
// outbound message.
type smsRequestBuilder func(ctx context.Context, cfg settings.SMSSettings, to, text string) (*http.Request, error)

// smsProviders is the strategy table mapping each supported provider to
// its request shape. Adding a provider means adding one entry here.
var smsProviders = map[settings.SMSProvider]smsRequestBuilder{
	settings.SMSProviderTextLK: buildTextLKRequest,
	settings.SMSProviderBrevo:  buildBrevoRequest,
	settings.SMSProviderTwilio: buildTwilioRequest,
	settings.SMSProviderBird:   buildBirdRequest,
	settings.SMSProviderPlivo:  buildPlivoRequest,
}

// HTTPSMSGateway delivers receipt SMS through whichever provider the
// store settings select.
type HTTPSMSGateway struct {
	httpClient *http.Client
}

// NewHTTPSMSGateway creates an SMS gateway with a bounded timeout.
func NewHTTPSMSGateway() *HTTPSMSGateway {
	return &HTTPSMSGateway{
		httpClient: &http.Client{Timeout: defaultGatewayTimeout},
	}
}

// Send delivers one SMS using the configured provider's request shape.
func (g *HTTPSMSGateway) Send(ctx context.Context, cfg settings.SMSSettings, to, text string) error {
	build, ok := smsProviders[cfg.Provider]
	if !ok {
		return shared.ErrUnknownSMSProvider
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGatewayTimeout)
	defer cancel()

	req, err := build(ctx, cfg, to, text)
	if err != nil {
		return fmt.Errorf("sms %s: build request: %w", cfg.Provider, err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms %s: %w", cfg.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("sms %s: gateway returned %d: %s", cfg.Provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func jsonRequest(ctx context.Context, endpoint string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func buildTextLKRequest(ctx context.Context, cfg settings.SMSSettings, to, text string) (*http.Request, error) {
	req, err := jsonRequest(ctx, "https://app.text.lk/api/v3/sms/send", map[string]string{
		"recipient": to,
		"sender_id": cfg.SenderID,
		"type":      "plain",
		"message":   text,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	return req, nil
}

func buildBrevoRequest(ctx context.Context, cfg settings.SMSSettings, to, text string) (*http.Request, error) {
	req, err := jsonRequest(ctx, "https://api.brevo.com/v3/transactionalSMS/sms", map[string]string{
		"sender":    cfg.SenderID,
		"recipient": to,
		"content":   text,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", cfg.APIKey)
	return req, nil
}

// buildTwilioRequest builds a form-encoded message create call.
// APISecret carries the account SID, APIKey the auth token.
func buildTwilioRequest(ctx context.Context, cfg settings.SMSSettings, to, text string) (*http.Request, error) {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", cfg.APISecret)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", cfg.SenderID)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.APISecret, cfg.APIKey)
	return req, nil
}

func buildBirdRequest(ctx context.Context, cfg settings.SMSSettings, to, text string) (*http.Request, error) {
	req, err := jsonRequest(ctx, "https://rest.messagebird.com/messages", map[string]any{
		"originator": cfg.SenderID,
		"recipients": []string{to},
		"body":       text,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "AccessKey "+cfg.APIKey)
	return req, nil
}

// buildPlivoRequest builds a message create call. APISecret carries the
// auth ID, APIKey the auth token.
func buildPlivoRequest(ctx context.Context, cfg settings.SMSSettings, to, text string) (*http.Request, error) {
	endpoint := fmt.Sprintf("https://api.plivo.com/v1/Account/%s/Message/", cfg.APISecret)
	req, err := jsonRequest(ctx, endpoint, map[string]string{
		"src":  cfg.SenderID,
		"dst":  to,
		"text": text,
	})
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(cfg.APISecret, cfg.APIKey)
	return req, nil
}
