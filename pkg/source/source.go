// Package source fetches input text from http(s) URLs.
//
// Responses are cached through a [cache.Cache] and transient failures
// (network errors, 5xx statuses) are retried with exponential backoff. HTML
// pages are reduced to their visible text so markup does not end up in the
// word table.
package source

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

const (
	// DefaultTTL is how long a fetched document stays cached.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxBytes bounds the size of a response body.
	DefaultMaxBytes = 32 << 20

	userAgent = "wordcloud (+https://github.com/matzehuels/wordcloud)"
)

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Client fetches documents over HTTP.
type Client struct {
	HTTP     *http.Client
	Cache    cache.Cache
	Backoff  cache.Backoff
	TTL      time.Duration
	MaxBytes int64
	Logger   *log.Logger
}

// NewClient creates a Client that caches documents in c. A nil cache
// disables caching.
func NewClient(c cache.Cache, logger *log.Logger) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Cache:    c,
		Backoff:  cache.DefaultBackoff,
		TTL:      DefaultTTL,
		MaxBytes: DefaultMaxBytes,
		Logger:   logger,
	}
}

// Fetch returns the text of the document at rawURL. With refresh set the
// cache is not read, but the fresh document is still stored.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "not an http(s) url: %q", rawURL)
	}
	key := "source:" + cache.HashString(rawURL)

	if !refresh {
		if data, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
			c.Logger.Debug("fetched from cache", "url", rawURL, "bytes", len(data))
			return data, nil
		}
	}

	var text []byte
	err := c.Backoff.Retry(ctx, func() error {
		var err error
		text, err = c.get(ctx, rawURL)
		if cache.IsRetryable(err) {
			c.Logger.Debug("fetch failed, retrying", "url", rawURL, "error", err)
		}
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Cancelled(ctx.Err())
		}
		return nil, err
	}

	if err := c.Cache.Set(ctx, key, text, c.TTL); err != nil {
		c.Logger.Warn("cache write failed", "url", rawURL, "error", err)
	}
	c.Logger.Debug("fetched", "url", rawURL, "bytes", len(text))
	return text, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "build request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain, text/html;q=0.9, */*;q=0.5")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeIO, err, "fetch %s", rawURL))
	}
	defer resp.Body.Close()

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxBytes+1))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeIO, err, "read %s", rawURL))
	}
	if int64(len(body)) > c.MaxBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", rawURL, c.MaxBytes)
	}

	if isHTML(resp.Header.Get("Content-Type")) {
		return []byte(HTMLText(string(body))), nil
	}
	return body, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeIO, "%s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeIO, "%s: status %d", rawURL, code)
	}
}

func isHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "html")
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

