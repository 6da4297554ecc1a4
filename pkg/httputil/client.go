package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemamap/pkg/buildinfo"
	"github.com/matzehuels/schemamap/pkg/errors"
)

// Defaults.
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultTimeout  = 30 * time.Second

	// maxBody bounds how much of a response is read.
	maxBody = 64 << 20
)

// Client posts JSON with retries.
type Client struct {
	http     *http.Client
	headers  http.Header
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a request header, e.g. Authorization.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client with a 30s timeout and three attempts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		headers:  make(http.Header),
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON sends body as JSON to url and decodes the response into out.
// Client errors (4xx other than 429) are [errors.ErrCodeInvalidInput].
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request")
	}

	var data []byte
	attempt := 0
	err = Retry(ctx, c.attempts, c.delay, func() error {
		attempt++
		data, err = c.post(ctx, url, payload)
		if err != nil && attempt < c.attempts {
			c.logger.Debug("request failed, retrying", "url", url, "attempt", attempt, "err", err)
		}
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode response from %s", url)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "schemamap/"+buildinfo.Version)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RetryableError{Err: statusError(resp), After: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: statusError(resp)}
	case resp.StatusCode >= 400:
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, statusError(resp), "request to %s rejected", url)
	}
	return data, nil
}

func statusError(resp *http.Response) error {
	return fmt.Errorf("%s %s: %s", resp.Request.Method, resp.Request.URL, resp.Status)
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
