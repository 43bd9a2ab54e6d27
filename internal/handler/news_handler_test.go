package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/codeteak/backend/pkg/newsapi"
)

// countingNewsClient is a newsapi.Client test double with call-count
// instrumentation.
type countingNewsClient struct {
	calls   atomic.Int32
	payload []byte
	err     error
}

func (c *countingNewsClient) TopHeadlines(context.Context) ([]byte, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.payload, nil
}

func TestNewsHandler_SecondRequestServedFromCache(t *testing.T) {
	client := &countingNewsClient{payload: []byte(`{"articles":[]}`)}
	h := NewNewsHandler(client, nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	if got := client.calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 upstream call for 2 requests within TTL, got %d", got)
	}
}

func TestNewsHandler_AdvertisesTTLInCacheControl(t *testing.T) {
	client := &countingNewsClient{payload: []byte(`{"articles":[]}`)}
	h := NewNewsHandler(client, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	cc := rec.Header().Get("Cache-Control")
	if !strings.Contains(cc, "s-maxage=3600") {
		t.Errorf("expected Cache-Control advertising the 3600s TTL, got %q", cc)
	}
}

func TestNewsHandler_MissingKeyIsInstructional(t *testing.T) {
	client := &countingNewsClient{err: newsapi.ErrNotConfigured}
	h := NewNewsHandler(client, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if !strings.Contains(resp["error"], "NEWS_API_KEY") {
		t.Errorf("expected an actionable setup message, got %q", resp["error"])
	}
}

func TestNewsHandler_UpstreamStatusPassesThrough(t *testing.T) {
	client := &countingNewsClient{err: &newsapi.APIError{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Rate limit exceeded. Please try again later.",
	}}
	h := NewNewsHandler(client, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 pass-through, got %d", rec.Code)
	}
}

func TestNewsHandler_FailureIsNotCached(t *testing.T) {
	client := &countingNewsClient{err: errors.New("network down")}
	h := NewNewsHandler(client, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	// Upstream recovers; the next request must fetch again and succeed.
	client.err = nil
	client.payload = []byte(`{"articles":[{"title":"x"}]}`)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 after recovery, got %d", rec.Code)
	}
	if got := client.calls.Load(); got != 2 {
		t.Errorf("expected 2 upstream calls, got %d", got)
	}
}
