// Package httpfetch provides a fetcher.Fetcher implementation backed by
// net/http.
package httpfetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"watcher/pkg/fetcher"
	"watcher/pkg/serrors"
)

// DefaultMaxBodyBytes caps how much of a page body is read.
const DefaultMaxBodyBytes = 8 << 20

// Options configure a Client.
type Options struct {
	// Timeout bounds a single fetch, including reading the body. Zero disables
	// the per-fetch timeout.
	Timeout time.Duration
	// UserAgent is sent with every request when non-empty.
	UserAgent string
	// MaxBodyBytes caps the number of body bytes read. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Client fetches pages over HTTP. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs the requests
	options    Options
}

// Fetch issues a GET request for URL and returns the response body as text.
// Non-2xx responses, transport errors and timeouts are returned as
// serrors.ErrFetch; timeouts additionally match serrors.ErrTimeout.
func (c *Client) Fetch(ctx context.Context, URL string) (string, error) {
	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URL, nil)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrFetch, err, "could not create request")
	}
	if c.options.UserAgent != "" {
		req.Header.Set("User-Agent", c.options.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classify(ctx, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", serrors.With(serrors.ErrFetch, "unexpected status: %s", resp.Status)
	}

	limit := c.options.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", classify(ctx, err, "could not read response body")
	}

	return string(b), nil
}

// classify wraps err as a fetch failure and marks deadline expiry as a timeout.
func classify(ctx context.Context, err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrFetch,
			serrors.Wrap(serrors.ErrTimeout, err, "fetch timed out"),
			"%s", msg)
	}

	return serrors.Wrap(serrors.ErrFetch, err, "%s", msg)
}

// Ensure Client conforms to the fetcher.Fetcher interface at compile time.
var _ fetcher.Fetcher = (*Client)(nil)

// New constructs a Client that uses the provided http.Client. A nil
// httpClient falls back to a client without a global timeout; the per-fetch
// timeout comes from options.
func New(httpClient *http.Client, options Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	options.UserAgent = strings.TrimSpace(options.UserAgent)

	return &Client{
		httpClient: httpClient,
		options:    options,
	}
}

