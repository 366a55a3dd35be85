// Package http provides HTTP implementations of articlemd.Fetcher and
// articlemd.SitemapService, plus the JSON API server.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/awitkowski/articlemd"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
// Publisher pages past this size are almost always malformed or
// not article HTML at all.
const DefaultMaxBodySize = 10 << 20 // 10 MiB

// DefaultUserAgent identifies the fetcher to origin servers.
const DefaultUserAgent = "articlemd/1.0 (+https://github.com/awitkowski/articlemd)"

// Ensure Fetcher implements articlemd.Fetcher at compile time.
var _ articlemd.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// It does not execute JavaScript and is suitable for static pages only.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum number of response bytes read.
// Defaults to DefaultMaxBodySize (10 MiB).
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", articlemd.Errorf(articlemd.EINVALID, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", articlemd.Errorf(articlemd.ETIMEOUT, "fetch timed out for %s", url)
		}
		return "", articlemd.Errorf(articlemd.EUNAVAILABLE, "fetch failed for %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", articlemd.Errorf(articlemd.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		if isTimeout(err) {
			return "", articlemd.Errorf(articlemd.ETIMEOUT, "fetch timed out for %s", url)
		}
		return "", articlemd.Errorf(articlemd.EUNAVAILABLE, "reading body for %s", url)
	}
	if int64(len(body)) > f.maxBodySize {
		return "", articlemd.Errorf(articlemd.EINVALID, "response body exceeds %d bytes for %s", f.maxBodySize, url)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
