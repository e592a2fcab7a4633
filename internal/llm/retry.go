package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Do runs fn until it succeeds, fails with a non-retryable error or runs
// out of attempts. Invalid output is retried once. It is shared by the
// LLM providers and the speech backends.
func Do(ctx context.Context, cfg RetryConfig, fn func(context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)
	retriedInvalid := false

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		retry, invalid := Retryable(err)
		if invalid {
			retry = !retriedInvalid
			retriedInvalid = true
		}
		if !retry || attempt == attempts-1 {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.backoff(attempt, err)):
		}
	}
	return err
}

// backoff is InitialWait*Multiplier^attempt capped at MaxWait with ±20%
// jitter. A rate limit with RetryAfter waits exactly that long.
func (cfg RetryConfig) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry retries transient failures of p.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryProvider{inner: p, cfg: cfg}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	err := Do(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		resp, err = r.inner.Generate(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *retryProvider) ModelID() string { return r.inner.ModelID() }
func (r *retryProvider) Name() string    { return r.inner.Name() }
