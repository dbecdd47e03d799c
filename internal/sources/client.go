// Package sources fetches and normalizes the live signals the score depends
// on: current weather from OpenWeather and headlines from NewsData.io,
// NewsAPI.org or an RSS feed.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mr1hm/safemap/internal/cache"
	"github.com/mr1hm/safemap/internal/config"
)

const userAgent = "SafeMap/1.0 (+https://safemap.ai)"

type Client struct {
	cfg        config.ProvidersConfig
	http       *http.Client
	cache      cache.Cache
	weatherTTL time.Duration
	newsTTL    time.Duration
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

// WithCache stores normalized provider answers in c.
func WithCache(c cache.Cache, weatherTTL, newsTTL time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.weatherTTL = weatherTTL
		cl.newsTTL = newsTTL
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.http = hc }
}

// WithBackOff replaces the retry schedule, mostly for tests.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(cl *Client) { cl.newBackOff = fn }
}

func NewClient(cfg config.ProvidersConfig, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxElapsedTime = cfg.Timeout
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON decodes the body of a GET into dst, retrying transport errors,
// 429 and 5xx answers up to the configured number of attempts.
func (c *Client) GetJSON(ctx context.Context, provider, rawURL string, dst any) error {
	return c.retry(ctx, provider, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("error creating request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("error while doing request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return statusFailure(provider, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return backoff.Permanent(fmt.Errorf("error decoding %s response: %w", provider, err))
		}
		return nil
	})
}

func (c *Client) retry(ctx context.Context, provider string, op backoff.Operation) error {
	attempts := c.cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(attempts-1)), ctx)
	notify := func(err error, wait time.Duration) {
		slog.Debug("retrying provider request", "source", provider, "wait", wait, "error", err)
	}
	return backoff.RetryNotify(op, b, notify)
}

// statusFailure wraps a non-2xx answer; only 429 and 5xx are retried.
func statusFailure(provider string, code int) error {
	statusErr := &StatusError{Provider: provider, Code: code}
	if statusErr.retryable() {
		return statusErr
	}
	return backoff.Permanent(statusErr)
}

// cached runs fetch on a cache miss and stores its result for ttl. Cache
// failures are logged and otherwise ignored.
func cached[T any](ctx context.Context, c *Client, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			slog.Warn("discarding unreadable cache entry", "key", key)
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	if c.cache != nil {
		raw, err := json.Marshal(v)
		if err == nil {
			err = c.cache.Set(ctx, key, raw, ttl)
		}
		if err != nil {
			slog.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return v, nil
}
