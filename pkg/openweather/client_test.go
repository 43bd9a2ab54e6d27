package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRealClient_NotConfigured(t *testing.T) {
	c := NewClient("")
	if _, err := c.Current(context.Background(), "12.87", "77.61"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRealClient_QueryAuthPreferred(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "key123" {
			t.Errorf("expected appid query param, got %q", q.Get("appid"))
		}
		if q.Get("lat") != "12.87" || q.Get("lon") != "77.61" {
			t.Errorf("unexpected coordinate: %s,%s", q.Get("lat"), q.Get("lon"))
		}
		if q.Get("units") != "metric" {
			t.Errorf("expected metric units, got %q", q.Get("units"))
		}
		_, _ = w.Write([]byte(`{"main":{"temp":24.1}}`))
	}))
	defer upstream.Close()

	c := NewClient("key123")
	c.BaseURL = upstream.URL

	payload, err := c.Current(context.Background(), "12.87", "77.61")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != `{"main":{"temp":24.1}}` {
		t.Errorf("unexpected payload: %s", payload)
	}
}

func TestRealClient_RetriesWithHeaderKeyOn401(t *testing.T) {
	var attempts int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.Header.Get("x-api-key") != "key123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"main":{"temp":24.1}}`))
	}))
	defer upstream.Close()

	c := NewClient("key123")
	c.BaseURL = upstream.URL

	if _, err := c.Current(context.Background(), "12.87", "77.61"); err != nil {
		t.Fatalf("expected the header-key retry to succeed, got: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", attempts)
	}
}

func TestRealClient_NoRetryOnOtherStatuses(t *testing.T) {
	var attempts int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"cod":"400","message":"wrong latitude"}`))
	}))
	defer upstream.Close()

	c := NewClient("key123")
	c.BaseURL = upstream.URL

	_, err := c.Current(context.Background(), "999", "77.61")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "wrong latitude" {
		t.Errorf("expected upstream message, got %q", apiErr.Message)
	}
	if attempts != 1 {
		t.Errorf("the alternate-auth retry must apply to 401 only, got %d attempts", attempts)
	}
}
