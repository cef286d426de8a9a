// Package ghclient is the typed wrapper over the GitHub REST endpoints the
// engine needs, with bounded retry on transient failures and a circuit
// breaker guarding sustained upstream outages. Adapted from the retry loop
// in BeadsLog's internal/linear/client.go, rebuilt against
// google/go-github/v68 instead of a GraphQL endpoint.
package ghclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
)

// Client wraps *github.Client with the retry/breaker policy and the
// higher-level operations the engine's tool layer composes.
type Client struct {
	gh      *github.Client
	breaker *gobreaker.CircuitBreaker
	retry   RetryConfig
}

// RetryConfig bounds the retry budget for transient failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryConfig mirrors the bounded-attempts, exponential-backoff
// contract of spec §4.2.
var DefaultRetryConfig = RetryConfig{MaxRetries: 4, BaseDelay: 500 * time.Millisecond}

// New builds a Client authenticated with the given static token.
func New(token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "github",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		gh:      github.NewClient(httpClient),
		breaker: cb,
		retry:   DefaultRetryConfig,
	}
}

// NewWithHTTPClient builds a Client around a caller-supplied *http.Client,
// used by tests to point at a local httptest server.
func NewWithHTTPClient(hc *http.Client, baseURL string) (*Client, error) {
	gh := github.NewClient(hc)
	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, err
		}
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "github-test",
		Timeout: 5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{gh: gh, breaker: cb, retry: DefaultRetryConfig}, nil
}

// WithRetryConfig returns a copy of the client using a caller-supplied
// retry budget, for tests that need deterministic (zero-delay) retries.
func (c *Client) WithRetryConfig(cfg RetryConfig) *Client {
	return &Client{gh: c.gh, breaker: c.breaker, retry: cfg}
}

// VerifyWriteAccess checks the authenticated identity's permission level on
// the repository.
func (c *Client) VerifyWriteAccess(ctx context.Context, owner, repo string) (bool, error) {
	var writable bool
	err := c.execute(ctx, "verify_write_access", func(ctx context.Context) error {
		repository, _, err := c.gh.Repositories.Get(ctx, owner, repo)
		if err != nil {
			return err
		}
		writable = repository.GetPermissions()["push"]
		return nil
	})
	return writable, err
}
