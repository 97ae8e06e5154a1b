package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PtitMax51/vent-pdf/internal/wind"
)

// GeocodeResolver resolves identifiers through the Open-Meteo geocoding API.
// The first candidate wins; there is no disambiguation step.
type GeocodeResolver struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeocodeResolver creates a geocoding resolver with its own bounded
// HTTP client.
func NewGeocodeResolver(timeout time.Duration, logger *slog.Logger) *GeocodeResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeocodeResolver{
		baseURL: "https://geocoding-api.open-meteo.com/v1/search",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (r *GeocodeResolver) Resolve(ctx context.Context, identifier string) (Place, error) {
	params := url.Values{
		"name":     {identifier},
		"count":    {"1"},
		"language": {"fr"},
		"format":   {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Place{}, fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Timezone  string  `json:"timezone"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Place{}, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Results) == 0 {
		return Place{}, &NotFoundError{Query: identifier}
	}

	top := payload.Results[0]
	name := top.Name
	if name == "" {
		name = identifier
	}
	return Place{
		Name:     name,
		Coord:    wind.Coordinates{Lat: top.Latitude, Lon: top.Longitude},
		Timezone: top.Timezone,
	}, nil
}
