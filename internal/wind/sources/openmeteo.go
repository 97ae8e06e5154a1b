package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/PtitMax51/vent-pdf/internal/wind"
)

// OpenMeteo fetches the current wind reading from the Open-Meteo forecast
// endpoint. No API key is needed and values arrive already in km/h.
type OpenMeteo struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewOpenMeteo(client *http.Client, logger *slog.Logger) *OpenMeteo {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenMeteo{
		name:    "OMF",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newBreaker("openmeteo"),
		logger:  logger,
	}
}

func (s *OpenMeteo) Name() string { return s.name }

// SetBaseURL points the source at a different endpoint (tests, proxies).
func (s *OpenMeteo) SetBaseURL(u string) { s.baseURL = u }

// Fetch returns the current observation, or a zero observation when the
// endpoint is unreachable or either field is missing. Speed and direction are
// required together; a partial reading is discarded whole.
func (s *OpenMeteo) Fetch(ctx context.Context, at wind.Coordinates, tzHint string) wind.Observation {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", at.Lat))
		values.Set("longitude", fmt.Sprintf("%f", at.Lon))
		values.Set("current", "wind_speed_10m,wind_direction_10m")
		tz := tzHint
		if tz == "" {
			tz = "auto"
		}
		values.Set("timezone", tz)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, values.Encode()), nil)
	}

	resp, err := resilientDo(ctx, s.client, s.circuit, defaultBackoff, buildRequest)
	if err != nil {
		s.logger.Warn("openmeteo request failed", "err", err)
		return wind.Observation{}
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			WindSpeed     *float64 `json:"wind_speed_10m"`
			WindDirection *float64 `json:"wind_direction_10m"`
			Time          string   `json:"time"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.logger.Warn("openmeteo decode failed", "err", err)
		return wind.Observation{}
	}

	cur := payload.Current
	speed := validSpeed(cur.WindSpeed)
	direction := validDirection(cur.WindDirection)
	if speed == nil || direction == nil {
		return wind.Observation{}
	}
	return wind.Observation{
		SpeedKmh:     speed,
		DirectionDeg: direction,
		Timezone:     tzHint,
	}
}
