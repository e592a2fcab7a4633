package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the backend.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse is output that is not valid JSON or fails the schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model output: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures and 5xx responses.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "provider unavailable"
	}
	return fmt.Sprintf("provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is output cut off by the token limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "output truncated: max tokens exceeded"
}

// Retryable classifies err for the retry loop. Invalid output is worth
// one more try; cancellation and truncation are not retried at all.
func Retryable(err error) (retry bool, invalidOutput bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, false
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false, false
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return true, true
	}
	return true, false
}

// statusError maps an HTTP status from a backend SDK error.
func statusError(status int, err error) error {
	if status == 429 {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

type purposeKey struct{}

// WithPurpose labels requests made with ctx for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
