package sources

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// backoffConfig controls exponential backoff between retries.
type backoffConfig struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

var defaultBackoff = backoffConfig{
	maxRetries:      2,
	initialInterval: 300 * time.Millisecond,
	maxInterval:     3 * time.Second,
}

var (
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
)

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// resilientDo executes the request with bounded retries, exponential backoff
// and a circuit breaker. The caller's context bounds the whole attempt
// including the waits between retries.
func resilientDo(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	bo backoffConfig,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		// An open circuit means the endpoint is already known bad; give up
		// right away so the fallback chain can move on.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, err
		}

		lastErr = err
		if attempt >= bo.maxRetries {
			return nil, lastErr
		}

		delay := bo.initialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if bo.maxInterval > 0 && delay > bo.maxInterval {
			delay = bo.maxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}
