package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"golang.org/x/time/rate"
)

// Config carries everything needed to talk to one REST source
type Config struct {
	BaseURL           string
	Headers           map[string]string
	RequestsPerSecond float64
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	Timeout           time.Duration
	Debug             bool
}

// Client wraps http.Client with source-side rate limiting, request retry
// and error classification. All requests of a sync share one client so
// the rate limit holds across streams.
type Client struct {
	baseURL string
	headers map[string]string
	http    *http.Client
	limiter *rate.Limiter
	retry   *utils.RetryPolicy
	debug   bool
}

func NewClient(cfg Config) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = constants.DefaultRequestsPerSecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = constants.DefaultRetryCount
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = constants.DefaultRetryBaseDelay
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = constants.DefaultRetryMaxDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	return &Client{
		baseURL: cfg.BaseURL,
		headers: cfg.Headers,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		retry:   utils.NewRetryPolicy(cfg.MaxRetries+1, cfg.RetryBaseDelay, cfg.RetryMaxDelay),
		debug:   cfg.Debug,
	}
}

// Request describes one GET against the source API
type Request struct {
	Path        string
	QueryParams url.Values
}

// Fetch performs the request with retry and decodes the response body
// into out. Throttle and transient failures are retried with backoff,
// credential rejections abort immediately.
func (c *Client) Fetch(ctx context.Context, req Request, out any) error {
	return c.retry.Execute(ctx, func() error {
		return c.fetchOnce(ctx, req, out)
	}, IsRetryable)
}

func (c *Client) fetchOnce(ctx context.Context, req Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter interrupted: %s", constants.ErrNonRetryable, err)
	}

	fullURL, err := c.buildURL(req)
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrNonRetryable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrNonRetryable, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug {
		logger.LogRequest(httpReq)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// connection resets, timeouts and dns hiccups can heal
		return fmt.Errorf("%w: %s", constants.ErrTransient, err)
	}
	defer resp.Body.Close()

	if c.debug {
		logger.LogResponse(resp)
	}

	if err := classifyStatus(resp); err != nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %s", constants.ErrTransient, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %s", constants.ErrNonRetryable, err)
	}

	return nil
}

func (c *Client) buildURL(req Request) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %s", c.baseURL, err)
	}

	parsed = parsed.JoinPath(req.Path)
	if len(req.QueryParams) > 0 {
		parsed.RawQuery = req.QueryParams.Encode()
	}

	return parsed.String(), nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: source returned status %d", constants.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{waitHint: parseRetryAfter(resp)}
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: source returned status %d", constants.ErrTransient, resp.StatusCode)
	default:
		return fmt.Errorf("%w: source returned status %d", constants.ErrNonRetryable, resp.StatusCode)
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		return time.Until(at)
	}

	return 0
}

// RateLimitError carries the server's Retry-After hint into the backoff
type RateLimitError struct {
	waitHint time.Duration
}

func (e *RateLimitError) Error() string {
	return constants.ErrRateLimited.Error()
}

func (e *RateLimitError) Unwrap() error {
	return constants.ErrRateLimited
}

func (e *RateLimitError) RetryAfter() time.Duration {
	return e.waitHint
}

// IsRetryable reports whether the request may be attempted again
func IsRetryable(err error) bool {
	return errors.Is(err, constants.ErrRateLimited) || errors.Is(err, constants.ErrTransient)
}
