package wind

import (
	"context"
	"log/slog"
	"time"
)

// Chain tries sources strictly in priority order and accepts the first
// complete (speed, direction) pair. Each attempt runs under its own timeout;
// an attempt that times out counts as absent and the chain moves on. No
// retries happen at this level and partial results are discarded whole.
type Chain struct {
	sources []Source
	timeout time.Duration
	logger  *slog.Logger
}

// NewChain builds a chain over sources, most trusted first.
func NewChain(sources []Source, timeout time.Duration, logger *slog.Logger) *Chain {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{sources: sources, timeout: timeout, logger: logger}
}

// Resolve returns the first complete observation along with the name of the
// source that produced it. ok is false when every source came back absent or
// partial.
func (c *Chain) Resolve(ctx context.Context, at Coordinates, tzHint string) (Observation, string, bool) {
	for _, s := range c.sources {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		obs := s.Fetch(attemptCtx, at, tzHint)
		cancel()

		if obs.Complete() {
			return obs, s.Name(), true
		}
		c.logger.Warn("source returned no usable wind data", "source", s.Name())
	}
	return Observation{}, "", false
}
