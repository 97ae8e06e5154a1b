package wind

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name   string
	obs    Observation
	called *int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ Coordinates, _ string) Observation {
	if s.called != nil {
		*s.called++
	}
	return s.obs
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChainResolve(t *testing.T) {
	coords := Coordinates{Lat: 49.2583, Lon: 4.0317}

	t.Run("first complete source wins", func(t *testing.T) {
		var forecastCalls int
		chain := NewChain([]Source{
			&stubSource{name: "realtime", obs: Observation{SpeedKmh: Float(20), DirectionDeg: Float(90)}},
			&stubSource{name: "forecast", obs: Observation{SpeedKmh: Float(50), DirectionDeg: Float(180)}, called: &forecastCalls},
		}, time.Second, discardLogger())

		obs, source, ok := chain.Resolve(context.Background(), coords, "Europe/Paris")

		require.True(t, ok)
		assert.Equal(t, "realtime", source)
		assert.Equal(t, 20.0, *obs.SpeedKmh)
		assert.Equal(t, 0, forecastCalls, "fallback must not be queried once a complete pair exists")
	})

	t.Run("partial result is discarded whole, never merged", func(t *testing.T) {
		chain := NewChain([]Source{
			&stubSource{name: "realtime", obs: Observation{DirectionDeg: Float(270)}},
			&stubSource{name: "forecast", obs: Observation{SpeedKmh: Float(50), DirectionDeg: Float(180)}},
		}, time.Second, discardLogger())

		obs, source, ok := chain.Resolve(context.Background(), coords, "")

		require.True(t, ok)
		assert.Equal(t, "forecast", source)
		assert.Equal(t, 180.0, *obs.DirectionDeg, "direction must come from the complete source, not the partial one")
		assert.Equal(t, 50.0, *obs.SpeedKmh)
	})

	t.Run("all sources absent or partial", func(t *testing.T) {
		chain := NewChain([]Source{
			&stubSource{name: "realtime", obs: Observation{}},
			&stubSource{name: "forecast", obs: Observation{SpeedKmh: Float(12)}},
		}, time.Second, discardLogger())

		obs, source, ok := chain.Resolve(context.Background(), coords, "")

		assert.False(t, ok)
		assert.Empty(t, source)
		assert.Nil(t, obs.SpeedKmh)
		assert.Nil(t, obs.DirectionDeg)
	})

	t.Run("sources are tried strictly in priority order", func(t *testing.T) {
		var first, second int
		chain := NewChain([]Source{
			&stubSource{name: "a", obs: Observation{}, called: &first},
			&stubSource{name: "b", obs: Observation{SpeedKmh: Float(10), DirectionDeg: Float(10)}, called: &second},
		}, time.Second, discardLogger())

		_, source, ok := chain.Resolve(context.Background(), coords, "")

		require.True(t, ok)
		assert.Equal(t, "b", source)
		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
	})
}
