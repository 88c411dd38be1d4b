// Package resilience provides exponential-backoff retry for connecting to
// external dependencies at startup.
package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls attempt count and backoff shape.
type RetryConfig struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
}

// DefaultRetry is tuned for dependency startup: a few quick attempts, then
// give up and let the caller decide whether the dependency is optional.
var DefaultRetry = RetryConfig{
	MaxAttempts:    5,
	InitialDelay:   500 * time.Millisecond,
	MaxDelay:       10 * time.Second,
	Multiplier:     2,
	JitterFraction: 0.2,
}

// Retry runs fn until it succeeds, attempts are exhausted, or ctx is
// cancelled.
func Retry(ctx context.Context, cfg RetryConfig, name string, fn func() error) error {
	log := slog.Default().With("component", "retry", "operation", name)
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		delay := backoff(cfg, attempt)
		log.Warn("attempt failed, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, cfg.MaxAttempts, err)
}

func backoff(cfg RetryConfig, attempt int) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if max := float64(cfg.MaxDelay); delay > max {
		delay = max
	}
	if cfg.JitterFraction > 0 {
		jitter := delay * cfg.JitterFraction
		delay = delay - jitter/2 + rand.Float64()*jitter
	}
	return time.Duration(delay)
}
