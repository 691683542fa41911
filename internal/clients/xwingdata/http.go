package xwingdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultRateLimit      = time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = time.Second
	maxBackoff            = 16 * time.Second
	userAgent             = "xwing-api/1.0"
)

// HTTPConfig configures the HTTP data set client
type HTTPConfig struct {
	URL string
	// Timeout bounds a single request
	Timeout time.Duration
	// RateLimit is the minimum gap between requests
	RateLimit time.Duration
	// MaxRetries is the number of retries after network errors, 429s and 5xx
	MaxRetries int
	// InitialBackoff is doubled after every retry up to 16s
	InitialBackoff time.Duration
	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Validate validates the HTTPConfig
func (cfg *HTTPConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("url", cfg.URL, vb)
	if cfg.Timeout < 0 {
		vb.Field("timeout", "must not be negative")
	}
	if cfg.RateLimit < 0 {
		vb.Field("rate_limit", "must not be negative")
	}
	if cfg.MaxRetries < 0 {
		vb.Field("max_retries", "must not be negative")
	}
	return vb.Build()
}

type httpClient struct {
	url            string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
	logger         *zap.Logger
}

// NewHTTP creates a client that downloads the data set over HTTP with rate
// limiting and retries.
func NewHTTP(cfg *HTTPConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit == 0 {
		limit = defaultRateLimit
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = defaultMaxRetries
	}
	backoff := cfg.InitialBackoff
	if backoff == 0 {
		backoff = defaultInitialBackoff
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &httpClient{
		url:            cfg.URL,
		httpClient:     client,
		rateLimiter:    rate.NewLimiter(rate.Every(limit), 1),
		maxRetries:     retries,
		initialBackoff: backoff,
		logger:         logger,
	}, nil
}

func (c *httpClient) Source() string {
	return c.url
}

func (c *httpClient) FetchDataset(ctx context.Context) (*xwing.Dataset, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return nil, err
	}

	dataset, err := Decode(body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode dataset from %s", c.url)
	}

	c.logger.Info("dataset downloaded",
		zap.String("url", c.url),
		zap.Int("bytes", len(body)),
		zap.Int("cards", dataset.CardCount()))

	return dataset, nil
}

// doRequest GETs the data set, retrying network errors, 429s and 5xx
// responses with exponential backoff.
func (c *httpClient) doRequest(ctx context.Context) ([]byte, error) {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying dataset download",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			if err := sleep(ctx, backoff); err != nil {
				return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "dataset download cancelled")
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "rate limiter error")
		}

		body, retryAfter, err := c.get(ctx)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
		if retryAfter > 0 {
			backoff = retryAfter
		}
	}

	return nil, errors.WrapWithCodef(lastErr, errors.CodeUnavailable,
		"dataset download failed after %d attempts", c.maxRetries+1)
}

func (c *httpClient) get(ctx context.Context) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.WrapWithCode(err, errors.CodeUnavailable, "HTTP request failed").
			WithMeta("retryable", true)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read response body").
				WithMeta("retryable", true)
		}
		return body, 0, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		var wait time.Duration
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
			wait = time.Duration(seconds) * time.Second
		}
		return nil, wait, errors.Unavailable("rate limited (HTTP 429)").WithMeta("retryable", true)

	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, errors.NotFoundf("dataset not found at %s", c.url)

	case resp.StatusCode >= 500:
		return nil, 0, errors.Unavailablef("server error (HTTP %d)", resp.StatusCode).WithMeta("retryable", true)

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, errors.Unavailable(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body))
	}
}

func isRetryable(err error) bool {
	retryable, _ := errors.GetMeta(err)["retryable"].(bool)
	return retryable
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
