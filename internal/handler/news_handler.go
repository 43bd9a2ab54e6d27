package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeteak/backend/internal/cache"
	"github.com/codeteak/backend/internal/metrics"
	"github.com/codeteak/backend/pkg/newsapi"
)

// NewsTTL is how long one technology-headlines payload is served from memory.
const NewsTTL = time.Hour

// NewsHandler serves the cached technology-headlines feed.
type NewsHandler struct {
	client   newsapi.Client
	cache    *cache.Slot
	recorder *metrics.Recorder
}

// NewNewsHandler creates a NewsHandler with its own cache slot.
func NewNewsHandler(client newsapi.Client, recorder *metrics.Recorder) *NewsHandler {
	return &NewsHandler{client: client, cache: cache.NewSlot(NewsTTL), recorder: recorder}
}

// Get handles GET /api/news. The upstream payload is returned verbatim; a
// fresh fetch happens at most once per TTL. Upstream failures are passed
// through with their status: there is no fallback data source and no stale
// serving.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	payload, hit, err := h.cache.Get(r.Context(), "", h.client.TopHeadlines)
	if err != nil {
		h.recorder.CacheRequest("news", "error")

		if errors.Is(err, newsapi.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError,
				"News API key is not configured. Please add NEWS_API_KEY to your environment and restart the server.")
			return
		}

		var apiErr *newsapi.APIError
		if errors.As(err, &apiErr) {
			slog.Error("news upstream error", "status", apiErr.StatusCode, "code", apiErr.Code)
			writeJSON(w, apiErr.StatusCode, map[string]any{
				"error":  apiErr.Message,
				"code":   apiErr.Code,
				"status": apiErr.StatusCode,
			})
			return
		}

		slog.Error("news fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch news")
		return
	}

	if hit {
		h.recorder.CacheRequest("news", "hit")
	} else {
		h.recorder.CacheRequest("news", "miss")
	}

	writeCachedPayload(w, payload, NewsTTL)
}

// writeCachedPayload writes an upstream JSON blob with a Cache-Control header
// advertising the slot TTL to downstream CDNs.
func writeCachedPayload(w http.ResponseWriter, payload []byte, ttl time.Duration) {
	seconds := int(ttl.Seconds())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", seconds, seconds*2))
	_, _ = w.Write(payload)
}
