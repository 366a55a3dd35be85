// Package webhook delivers parse results to an HTTP endpoint as signed
// JSON payloads.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/awitkowski/articlemd"
)

// DefaultMaxAttempts bounds delivery retries.
const DefaultMaxAttempts = 3

// DefaultRetryDelay is the base delay between attempts; it doubles after
// each failure.
const DefaultRetryDelay = 500 * time.Millisecond

// Ensure Sink implements articlemd.Sink at compile time.
var _ articlemd.Sink = (*Sink)(nil)

// Sink POSTs parse results to a webhook URL. Each request carries an
// X-Signature header holding the hex HMAC-SHA256 of the body, so
// receivers can verify the payload came from a holder of the shared
// secret.
type Sink struct {
	url         string
	secret      []byte
	client      *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

// Option configures a Sink.
type Option func(*Sink)

// WithClient sets the HTTP client used for deliveries.
func WithClient(client *http.Client) Option {
	return func(s *Sink) {
		s.client = client
	}
}

// WithMaxAttempts sets how many times a delivery is tried before
// giving up. Defaults to DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(s *Sink) {
		s.maxAttempts = n
	}
}

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Sink) {
		s.retryDelay = d
	}
}

// NewSink creates a Sink targeting the given URL. The secret signs each
// payload; an empty secret disables signing.
func NewSink(url, secret string, opts ...Option) *Sink {
	s := &Sink{
		url:         url,
		secret:      []byte(secret),
		client:      http.DefaultClient,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver POSTs the result as JSON, retrying failed attempts with
// exponential backoff.
func (s *Sink) Deliver(ctx context.Context, result *articlemd.ParseResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}

	delay := s.retryDelay
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = s.post(ctx, body)
		if lastErr == nil {
			return nil
		}
	}

	return articlemd.Errorf(articlemd.EUNAVAILABLE, "webhook delivery failed after %d attempts: %s", s.maxAttempts, lastErr)
}

func (s *Sink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(s.secret) > 0 {
		req.Header.Set("X-Signature", Sign(s.secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return articlemd.Errorf(articlemd.EUNAVAILABLE, "webhook returned HTTP %d", resp.StatusCode)
	}

	return nil
}

// Sign computes the hex HMAC-SHA256 signature of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
