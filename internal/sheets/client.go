package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client downloads spreadsheet exports with bounded retries on 429/5xx.
type Client struct {
	httpClient       *http.Client
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	logger           *zap.Logger
}

// NewClient allows customizing HTTP timeout and retry/backoff behavior.
// Zero values select the defaults; a nil logger disables diagnostics.
func NewClient(httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration, logger *zap.Logger) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
		logger:           logger,
	}
}

// Fetch performs a GET on url and returns the full response body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	maxAttempts := c.retryMaxAttempts
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "text/csv")
		c.logger.Debug("fetching sheet export", zap.String("url", url), zap.Int("attempt", attempt))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isRetryableNetErr(err) && attempt < maxAttempts {
				c.logger.Debug("retrying after network error", zap.Error(err))
				lastErr = &UnreachableError{URL: url, Err: err}
				sleep(ctx, c.capDelay(withJitter(backoff)))
				backoff *= 2
				continue
			}
			return nil, &UnreachableError{URL: url, Err: err}
		}
		body, retry, err := c.readResponse(resp, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt >= maxAttempts {
			break
		}
		wait := c.capDelay(withJitter(backoff))
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := parseRetryAfterSeconds(ra); perr == nil && secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		c.logger.Debug("retrying after status", zap.Int("status", resp.StatusCode), zap.Duration("wait", wait))
		sleep(ctx, wait)
		backoff *= 2
	}
	return nil, lastErr
}

// readResponse drains resp and reports whether a failed status is retryable.
func (c *Client) readResponse(resp *http.Response, url string) ([]byte, bool, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		herr := &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
		retry := resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)
		return nil, retry, classifyHTTPError(herr)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

func (c *Client) capDelay(d time.Duration) time.Duration {
	if c.retryMaxDelay > 0 && d > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return d
}

func classifyHTTPError(e *HTTPError) error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{HTTPError: e}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AccessDeniedError{HTTPError: e}
	}
	return e
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// parseRetryAfterSeconds tries to interpret Retry-After header value as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
