package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeteak/backend/internal/cache"
	"github.com/codeteak/backend/internal/metrics"
	"github.com/codeteak/backend/pkg/openweather"
)

// WeatherTTL is how long one current-conditions payload is served from memory.
const WeatherTTL = 10 * time.Minute

// Default coordinate (Bengaluru) used when the client sends none.
const (
	defaultLat = "12.8744"
	defaultLon = "77.6137"
)

// WeatherHandler serves cached current conditions, keyed by coordinate: a
// cached payload for one coordinate is never served for another, even inside
// the TTL.
type WeatherHandler struct {
	client   openweather.Client
	cache    *cache.Slot
	recorder *metrics.Recorder
}

// NewWeatherHandler creates a WeatherHandler with its own cache slot.
func NewWeatherHandler(client openweather.Client, recorder *metrics.Recorder) *WeatherHandler {
	return &WeatherHandler{client: client, cache: cache.NewSlot(WeatherTTL), recorder: recorder}
}

// Get handles GET /api/weather?lat=&lon=.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	if lat == "" {
		lat = defaultLat
	}
	lon := r.URL.Query().Get("lon")
	if lon == "" {
		lon = defaultLon
	}

	key := lat + "," + lon
	payload, hit, err := h.cache.Get(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		return h.client.Current(ctx, lat, lon)
	})
	if err != nil {
		h.recorder.CacheRequest("weather", "error")

		if errors.Is(err, openweather.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError,
				"OpenWeather API key is not configured. Please add OPENWEATHER_API_KEY to your environment and restart the server.")
			return
		}

		var apiErr *openweather.APIError
		if errors.As(err, &apiErr) {
			slog.Error("weather upstream error", "status", apiErr.StatusCode, "coordinate", key)
			writeJSON(w, apiErr.StatusCode, map[string]any{
				"error":   "Failed to fetch weather",
				"details": apiErr.Message,
			})
			return
		}

		slog.Error("weather fetch failed", "coordinate", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather")
		return
	}

	if hit {
		h.recorder.CacheRequest("weather", "hit")
	} else {
		h.recorder.CacheRequest("weather", "miss")
	}

	writeCachedPayload(w, payload, WeatherTTL)
}
