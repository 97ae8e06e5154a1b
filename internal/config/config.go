package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/PtitMax51/vent-pdf/internal/cartouche"
)

var validate = validator.New()

// AppConfig carries everything the annotator needs beyond per-run CLI flags.
type AppConfig struct {
	// MeteoFranceToken authorizes the forecast fallback source. The realtime
	// source needs no key.
	MeteoFranceToken string

	// SourceTimeout bounds each weather-source attempt; a timed-out source
	// counts as absent and the chain moves on.
	SourceTimeout time.Duration `validate:"gt=0"`

	Layout cartouche.Options `validate:"required"`
}

// Load reads configuration from environment with the defaults the tool has
// always shipped with. CLI flags override the layout afterwards; call
// Validate once they are merged in.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "err", err)
	}

	cfg := &AppConfig{}
	cfg.MeteoFranceToken = os.Getenv("METEOFRANCE_TOKEN")

	timeoutStr := getenvDefault("SOURCE_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SOURCE_TIMEOUT: %w", err)
	}
	cfg.SourceTimeout = timeout

	cfg.Layout = cartouche.Options{
		Width:     135.0,
		Height:    74.0,
		TitleSize: 14.0,
		BodySize:  12.0,
		Margin:    12.0,
		Fill:      true,
		Fonts:     splitList(getenvDefault("FONT_PRIORITY", "Times-Roman,Helvetica")),
	}

	return cfg, nil
}

// Validate checks the fully merged configuration.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
