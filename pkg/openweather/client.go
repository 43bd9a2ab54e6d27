// Package openweather provides a lightweight OpenWeatherMap current-conditions
// client. Uses raw HTTP calls (no SDK).
package openweather

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

const defaultBaseURL = "https://api.openweathermap.org"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("openweather: not configured")

// APIError carries the upstream HTTP status for pass-through responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openweather: status %d: %s", e.StatusCode, e.Message)
}

// Client fetches current weather conditions.
type Client interface {
	// Current returns the raw JSON current-conditions payload for the
	// given coordinate.
	Current(ctx context.Context, lat, lon string) ([]byte, error)
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

// Current fetches metric current conditions for lat/lon. Authentication goes
// through the appid query parameter first; a 401 is retried once with the
// x-api-key header as the alternate method. The retry applies to 401 only.
func (c *RealClient) Current(ctx context.Context, lat, lon string) ([]byte, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}

	query := url.Values{}
	query.Set("lat", lat)
	query.Set("lon", lon)
	query.Set("units", "metric")
	endpoint := c.BaseURL + "/data/2.5/weather?" + query.Encode()

	payload, status, err := c.fetch(ctx, endpoint+"&appid="+url.QueryEscape(c.APIKey), false)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		payload, status, err = c.fetch(ctx, endpoint, true)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, upstreamError(status, payload)
	}
	return payload, nil
}

func (c *RealClient) fetch(ctx context.Context, endpoint string, keyInHeader bool) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if keyInHeader {
		req.Header.Set("x-api-key", c.APIKey)
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
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &parsed)

	message := parsed.Message
	if status == http.StatusUnauthorized {
		message = "Invalid API key"
	}
	if message == "" {
		message = "Failed to fetch weather"
	}
	return &APIError{StatusCode: status, Message: message}
}
