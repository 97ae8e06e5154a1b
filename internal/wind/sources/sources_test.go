package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PtitMax51/vent-pdf/internal/wind"
)

var reims = wind.Coordinates{Lat: 49.2583, Lon: 4.0317}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenMeteoFetch(t *testing.T) {
	t.Run("complete current reading", func(t *testing.T) {
		srv := serveJSON(t, `{"current":{"wind_speed_10m":22.5,"wind_direction_10m":270,"time":"2026-08-29T12:00"}}`)
		s := NewOpenMeteo(srv.Client(), discardLogger())
		s.baseURL = srv.URL

		obs := s.Fetch(context.Background(), reims, "Europe/Paris")

		require.True(t, obs.Complete())
		assert.Equal(t, 22.5, *obs.SpeedKmh)
		assert.Equal(t, 270.0, *obs.DirectionDeg)
		assert.Equal(t, "Europe/Paris", obs.Timezone)
	})

	t.Run("missing direction discards the whole reading", func(t *testing.T) {
		srv := serveJSON(t, `{"current":{"wind_speed_10m":22.5}}`)
		s := NewOpenMeteo(srv.Client(), discardLogger())
		s.baseURL = srv.URL

		obs := s.Fetch(context.Background(), reims, "")

		assert.Nil(t, obs.SpeedKmh, "no partial observation may surface")
		assert.Nil(t, obs.DirectionDeg)
	})

	t.Run("request carries the current wind fields and timezone", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			fmt.Fprint(w, `{"current":{"wind_speed_10m":1,"wind_direction_10m":1}}`)
		}))
		t.Cleanup(srv.Close)
		s := NewOpenMeteo(srv.Client(), discardLogger())
		s.baseURL = srv.URL

		s.Fetch(context.Background(), reims, "Europe/Paris")

		assert.Contains(t, gotQuery, "current=wind_speed_10m%2Cwind_direction_10m")
		assert.Contains(t, gotQuery, "timezone=Europe%2FParis")
	})

	t.Run("out-of-range values discard the reading", func(t *testing.T) {
		for _, body := range []string{
			`{"current":{"wind_speed_10m":22.5,"wind_direction_10m":-90}}`,
			`{"current":{"wind_speed_10m":22.5,"wind_direction_10m":420}}`,
			`{"current":{"wind_speed_10m":-18,"wind_direction_10m":270}}`,
		} {
			srv := serveJSON(t, body)
			s := NewOpenMeteo(srv.Client(), discardLogger())
			s.baseURL = srv.URL

			obs := s.Fetch(context.Background(), reims, "")

			assert.Nil(t, obs.SpeedKmh, "body %s", body)
			assert.Nil(t, obs.DirectionDeg, "body %s", body)
		}
	})

	t.Run("unparsable body yields absent", func(t *testing.T) {
		srv := serveJSON(t, `{not json`)
		s := NewOpenMeteo(srv.Client(), discardLogger())
		s.baseURL = srv.URL

		obs := s.Fetch(context.Background(), reims, "")
		assert.False(t, obs.Complete())
	})
}

func TestMeteoFranceFetch(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	now := fake.Now().Unix()

	newSource := func(srv *httptest.Server) *MeteoFrance {
		s := NewMeteoFrance(srv.Client(), "test-token", fake, discardLogger())
		s.baseURL = srv.URL
		return s
	}

	t.Run("nearest step selection and unit heuristic", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{"timezone":"Europe/Paris"},"forecast":[
			{"dt":%d,"wind10m":10,"dirwind10m":90},
			{"dt":%d,"wind10m":18,"dirwind10m":270},
			{"dt":%d,"wind10m":30,"dirwind10m":180}]}`, now-600, now-30, now+500)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "UTC")

		require.True(t, obs.Complete())
		assert.InDelta(t, 64.8, *obs.SpeedKmh, 1e-9, "18 is read as m/s and converted")
		assert.Equal(t, 270.0, *obs.DirectionDeg)
		assert.Equal(t, "Europe/Paris", obs.Timezone)
	})

	t.Run("speed at or above 40 stays km/h", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{},"forecast":[{"dt":%d,"wind10m":55,"dirwind10m":10}]}`, now)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "UTC")

		require.True(t, obs.Complete())
		assert.Equal(t, 55.0, *obs.SpeedKmh)
		assert.Equal(t, "UTC", obs.Timezone, "missing payload timezone falls back to the hint")
	})

	t.Run("nested wind object aliases", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{},"forecast":[{"dt":%d,"wind":{"speed":9,"dir":45}}]}`, now)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")

		require.True(t, obs.Complete())
		assert.InDelta(t, 32.4, *obs.SpeedKmh, 1e-9)
		assert.Equal(t, 45.0, *obs.DirectionDeg)
	})

	t.Run("partial step surfaces a partial observation", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{},"forecast":[{"dt":%d,"dirwind10m":200}]}`, now)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")

		assert.False(t, obs.Complete())
		assert.Nil(t, obs.SpeedKmh)
		require.NotNil(t, obs.DirectionDeg)
		assert.Equal(t, 200.0, *obs.DirectionDeg)
	})

	t.Run("out-of-range direction is absent, not a panic downstream", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{},"forecast":[{"dt":%d,"wind10m":20,"dirwind10m":-90}]}`, now)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")

		assert.False(t, obs.Complete())
		assert.Nil(t, obs.DirectionDeg)
		require.NotNil(t, obs.SpeedKmh, "the valid speed still surfaces")
		assert.Equal(t, 72.0, *obs.SpeedKmh)
	})

	t.Run("direction of 360 or more is absent", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{},"forecast":[{"dt":%d,"wind10m":55,"dirwind10m":360}]}`, now)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")
		assert.Nil(t, obs.DirectionDeg)
	})

	t.Run("negative speed is absent, not converted", func(t *testing.T) {
		body := fmt.Sprintf(`{"position":{},"forecast":[{"dt":%d,"wind10m":-18,"dirwind10m":270}]}`, now)
		srv := serveJSON(t, body)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")

		assert.Nil(t, obs.SpeedKmh)
		require.NotNil(t, obs.DirectionDeg)
		assert.Equal(t, 270.0, *obs.DirectionDeg)
	})

	t.Run("empty forecast yields absent", func(t *testing.T) {
		srv := serveJSON(t, `{"position":{"timezone":"Europe/Paris"},"forecast":[]}`)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")
		assert.False(t, obs.Complete())
	})

	t.Run("unparsable body yields absent", func(t *testing.T) {
		srv := serveJSON(t, `<html>maintenance</html>`)
		s := newSource(srv)

		obs := s.Fetch(context.Background(), reims, "")
		assert.False(t, obs.Complete())
	})
}

func TestNearestStepTieBreak(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	now := float64(fake.Now().Unix())
	s := &MeteoFrance{clock: fake}

	steps := []map[string]any{
		{"dt": now + 30, "tag": "late"},
		{"dt": now - 30, "tag": "early"},
	}

	best := s.nearestStep(steps)
	assert.Equal(t, "late", best["tag"], "equal distances resolve to the first step in response order")
}

func TestNearestStepMissingDt(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	now := float64(fake.Now().Unix())
	s := &MeteoFrance{clock: fake}

	steps := []map[string]any{
		{"dt": now + 600, "tag": "far"},
		{"tag": "undated"},
	}

	best := s.nearestStep(steps)
	assert.Equal(t, "undated", best["tag"], "a step with no dt counts as distance zero")
}
