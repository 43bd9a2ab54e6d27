// Package newsapi provides a lightweight NewsAPI (newsapi.org) client for
// the technology-headlines feed. Uses raw HTTP calls (no SDK).
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://newsapi.org"

// ErrNotConfigured is returned when no API key is set. The handler turns it
// into an instructional setup error for the operator.
var ErrNotConfigured = errors.New("newsapi: not configured")

// APIError carries the upstream HTTP status so the handler can pass it
// through instead of flattening everything to 500.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi: status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client fetches technology headlines.
type Client interface {
	// TopHeadlines returns the raw JSON payload of the technology
	// top-headlines endpoint.
	TopHeadlines(ctx context.Context) ([]byte, error)
}

// RealClient is the raw HTTP implementation of Client.
type RealClient struct {
	APIKey     string
	BaseURL    string // overridable for tests
	httpClient *http.Client
}

// NewClient creates a RealClient. An empty apiKey yields a client whose
// calls return ErrNotConfigured.
func NewClient(apiKey string) *RealClient {
	return &RealClient{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

// TopHeadlines fetches technology headlines. Authentication goes through the
// X-Api-Key header first; a 401 is retried once with the apiKey query
// parameter, which some NewsAPI plans require. The retry applies to 401
// only, never to other statuses.
func (c *RealClient) TopHeadlines(ctx context.Context) ([]byte, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}

	endpoint := c.BaseURL + "/v2/top-headlines?category=technology&language=en&pageSize=20"

	payload, status, err := c.fetch(ctx, endpoint, true)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		payload, status, err = c.fetch(ctx, endpoint+"&apiKey="+url.QueryEscape(c.APIKey), false)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, upstreamError(status, payload)
	}
	return payload, nil
}

// fetch performs one GET and returns the body and status without judging it.
func (c *RealClient) fetch(ctx context.Context, endpoint string, keyInHeader bool) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if keyInHeader {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func upstreamError(status int, body []byte) *APIError {
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &parsed)

	message := parsed.Message
	switch {
	case status == http.StatusUnauthorized && parsed.Code == "apiKeyInvalid":
		message = "Invalid NewsAPI key. Please verify your API key is correct and active."
	case status == http.StatusUnauthorized:
		if message == "" {
			message = "Authentication failed. Please check your NewsAPI key."
		}
	case status == http.StatusTooManyRequests:
		message = "Rate limit exceeded. Please try again later."
	case message == "":
		message = "Failed to fetch news"
	}

	return &APIError{StatusCode: status, Code: parsed.Code, Message: message}
}
