package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/PtitMax51/vent-pdf/internal/wind"
)

// MeteoFrance fetches the forecast for the coordinates and extracts wind
// fields from the step closest to now. Steps are decoded as opaque maps
// because the public schema is not stable; see fields.go for the alias
// probing.
type MeteoFrance struct {
	name    string
	baseURL string
	token   string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	clock   clockwork.Clock
	logger  *slog.Logger
}

func NewMeteoFrance(client *http.Client, token string, clock clockwork.Clock, logger *slog.Logger) *MeteoFrance {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MeteoFrance{
		name:    "MF",
		baseURL: "https://webservice.meteofrance.com",
		token:   token,
		client:  client,
		circuit: newBreaker("meteofrance"),
		clock:   clock,
		logger:  logger,
	}
}

func (s *MeteoFrance) Name() string { return s.name }

// SetBaseURL points the source at a different endpoint (tests, proxies).
func (s *MeteoFrance) SetBaseURL(u string) { s.baseURL = u }

// Fetch selects the forecast step minimizing |dt - now| (ties keep the first
// step in response order) and probes it for wind speed and direction. Either
// field may end up absent; the fallback chain decides what to do with a
// partial result.
func (s *MeteoFrance) Fetch(ctx context.Context, at wind.Coordinates, tzHint string) wind.Observation {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", at.Lat))
		values.Set("lon", fmt.Sprintf("%f", at.Lon))
		values.Set("lang", "fr")
		if s.token != "" {
			values.Set("token", s.token)
		}
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/forecast?%s", s.baseURL, values.Encode()), nil)
	}

	resp, err := resilientDo(ctx, s.client, s.circuit, defaultBackoff, buildRequest)
	if err != nil {
		s.logger.Warn("meteofrance request failed", "err", err)
		return wind.Observation{}
	}
	defer resp.Body.Close()

	var payload struct {
		Position struct {
			Timezone string `json:"timezone"`
		} `json:"position"`
		Forecast []map[string]any `json:"forecast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.logger.Warn("meteofrance decode failed", "err", err)
		return wind.Observation{}
	}
	if len(payload.Forecast) == 0 {
		return wind.Observation{}
	}

	best := s.nearestStep(payload.Forecast)

	speed := validSpeed(probeFloat(best, speedProbes))
	if speed != nil {
		n := normalizeSpeed(*speed)
		speed = &n
	}
	direction := validDirection(probeFloat(best, directionProbes))

	tz := payload.Position.Timezone
	if tz == "" {
		tz = tzHint
	}
	return wind.Observation{
		SpeedKmh:     speed,
		DirectionDeg: direction,
		Timezone:     tz,
	}
}

// nearestStep picks the step whose "dt" epoch is closest to now. A step with
// no parsable dt counts as distance zero, matching how the tool has always
// behaved. Strictly-smaller comparison resolves ties to the first step
// encountered.
func (s *MeteoFrance) nearestStep(steps []map[string]any) map[string]any {
	now := float64(s.clock.Now().Unix())

	best := steps[0]
	bestDist := math.Inf(1)
	for _, step := range steps {
		dt := now
		if v, ok := asFloat(step["dt"]); ok {
			dt = v
		}
		if d := math.Abs(dt - now); d < bestDist {
			bestDist = d
			best = step
		}
	}
	return best
}
