package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/sony/gobreaker"
)

// execute runs fn under the circuit breaker with bounded exponential
// backoff retry on transient failures (5xx, rate limit, network error).
// Non-retriable failures (auth, validation, not-found) surface on the
// first attempt. The op label is used only for breaker/error context, not
// logged here — callers log at the tool-operation boundary.
func (c *Client) execute(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, fn(ctx)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return wrapOpErr(op, err)
		}
		lastErr = err

		if !isRetriable(err) {
			return wrapOpErr(op, err)
		}
		if attempt == c.retry.MaxRetries {
			break
		}

		delay := retryAfter(err)
		if delay == 0 {
			delay = c.retry.BaseDelay * time.Duration(1<<uint(attempt))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return wrapOpErr(op, lastErr)
}

func wrapOpErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("github %s: %w", op, err)
}

// isRetriable classifies an error from the GitHub client as transient.
func isRetriable(err error) bool {
	var rate *github.RateLimitError
	if errors.As(err, &rate) {
		return true
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return true
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		code := ghErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= 500
	}
	// Network-level errors (no structured GitHub response) are retried;
	// validation/decoding errors are not expected to self-heal.
	var urlErr interface{ Timeout() bool }
	if errors.As(err, &urlErr) {
		return true
	}
	return false
}

// retryAfter extracts a server-provided retry hint, or 0 if none.
func retryAfter(err error) time.Duration {
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) && abuse.RetryAfter != nil {
		return *abuse.RetryAfter
	}
	var rate *github.RateLimitError
	if errors.As(err, &rate) {
		if wait := time.Until(rate.Rate.Reset.Time); wait > 0 && wait < 5*time.Minute {
			return wait
		}
	}
	return 0
}
