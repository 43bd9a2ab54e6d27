// Package resend provides a lightweight Resend email API client.
// Uses raw HTTP calls (no SDK) to minimize external dependencies.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// ErrNotConfigured is returned when no API key is set. Callers treat it as
// "skip email, log it" rather than a failure.
var ErrNotConfigured = errors.New("resend: not configured")

// Email describes one outbound message.
type Email struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// Client is the Resend API client interface.
type Client interface {
	// Send delivers one email and returns the provider-assigned message id.
	Send(ctx context.Context, email Email) (string, error)
}

// RealClient is the raw HTTP implementation of Client.
type RealClient struct {
	APIKey     string
	BaseURL    string // overridable for tests
	httpClient *http.Client
}

// NewClient creates a RealClient. An empty apiKey yields a client whose
// Send always returns ErrNotConfigured.
func NewClient(apiKey string) *RealClient {
	return &RealClient{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

// Send posts to /emails and returns the message id from the response.
func (c *RealClient) Send(ctx context.Context, email Email) (string, error) {
	if c.APIKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(email)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("resend: send failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("resend: decode response: %w", err)
	}
	return result.ID, nil
}
