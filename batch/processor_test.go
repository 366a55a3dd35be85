package batch_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/batch"
	"github.com/awitkowski/articlemd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor() (*batch.Processor, *deliveries) {
	d := &deliveries{}
	p := &batch.Processor{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html><body><article><p>Body for " + url + "</p></article></body></html>", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				return &articlemd.ParseResult{
					SourceURL: req.SourceURL,
					Status:    "success",
					Markdown:  "# Parsed\n\n" + req.SourceURL + "\n\n",
				}, nil
			},
		},
		Sinks:       []articlemd.Sink{d.sink()},
		RetryDelays: []time.Duration{time.Millisecond},
	}
	return p, d
}

// deliveries records sink calls across goroutines.
type deliveries struct {
	mu      sync.Mutex
	results []*articlemd.ParseResult
}

func (d *deliveries) sink() articlemd.Sink {
	return &mock.Sink{
		DeliverFn: func(ctx context.Context, result *articlemd.ParseResult) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.results = append(d.results, result)
			return nil
		},
	}
}

func (d *deliveries) urls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var urls []string
	for _, r := range d.results {
		urls = append(urls, r.SourceURL)
	}
	return urls
}

func TestProcessor_ProcessURLs(t *testing.T) {
	t.Parallel()

	t.Run("delivers every unique URL", func(t *testing.T) {
		t.Parallel()

		p, d := newProcessor()
		result, err := p.ProcessURLs(context.Background(), []string{
			"https://example.org/a",
			"https://example.org/b",
			"https://example.org/c",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Delivered)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 0, result.Skipped)
		assert.ElementsMatch(t, []string{
			"https://example.org/a",
			"https://example.org/b",
			"https://example.org/c",
		}, d.urls())
	})

	t.Run("skips duplicate URLs", func(t *testing.T) {
		t.Parallel()

		p, d := newProcessor()
		result, err := p.ProcessURLs(context.Background(), []string{
			"https://example.org/a",
			"https://example.org/a",
			"https://example.org/b",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Delivered)
		assert.Equal(t, 1, result.Skipped)
		assert.Len(t, d.urls(), 2)
	})

	t.Run("failing URL does not abort the batch", func(t *testing.T) {
		t.Parallel()

		p, d := newProcessor()
		p.Parser = &mock.Parser{
			ParseFn: func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
				if req.SourceURL == "https://example.org/bad" {
					return nil, articlemd.Errorf(articlemd.ENOCONTENT, "no content found")
				}
				return &articlemd.ParseResult{SourceURL: req.SourceURL, Status: "success", Markdown: "x"}, nil
			},
		}

		result, err := p.ProcessURLs(context.Background(), []string{
			"https://example.org/good",
			"https://example.org/bad",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Delivered)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []string{"https://example.org/good"}, d.urls())
	})

	t.Run("retries transient fetch failures", func(t *testing.T) {
		t.Parallel()

		p, _ := newProcessor()
		var calls atomic.Int32
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if calls.Add(1) < 3 {
					return "", articlemd.Errorf(articlemd.EUNAVAILABLE, "HTTP 503 for %s", url)
				}
				return "<html></html>", nil
			},
		}
		p.RetryDelays = []time.Duration{time.Millisecond, time.Millisecond}

		result, err := p.ProcessURLs(context.Background(), []string{"https://example.org/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Delivered)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry invalid input", func(t *testing.T) {
		t.Parallel()

		p, _ := newProcessor()
		var calls atomic.Int32
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls.Add(1)
				return "", articlemd.Errorf(articlemd.EINVALID, "response body too large")
			},
		}

		result, err := p.ProcessURLs(context.Background(), []string{"https://example.org/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		p, _ := newProcessor()

		var mu sync.Mutex
		var events []batch.ProgressEvent
		progress := func(e batch.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}

		_, err := p.ProcessURLs(context.Background(), []string{
			"https://example.org/a",
			"https://example.org/b",
		}, progress)

		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		require.GreaterOrEqual(t, len(events), 4)
		assert.Equal(t, batch.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, batch.ProgressFinished, events[len(events)-1].Type)

		var completed int
		for _, e := range events {
			if e.Type == batch.ProgressCompleted {
				completed++
			}
		}
		assert.Equal(t, 2, completed)
	})

	t.Run("counts sink failures as failed", func(t *testing.T) {
		t.Parallel()

		p, _ := newProcessor()
		p.Sinks = []articlemd.Sink{&mock.Sink{
			DeliverFn: func(ctx context.Context, result *articlemd.ParseResult) error {
				return articlemd.Errorf(articlemd.EUNAVAILABLE, "sink down")
			},
		}}

		result, err := p.ProcessURLs(context.Background(), []string{"https://example.org/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Delivered)
		assert.Equal(t, 1, result.Failed)
	})
}

func TestProcessor_ProcessSite(t *testing.T) {
	t.Parallel()

	p, d := newProcessor()
	p.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *articlemd.URLFilter) ([]string, error) {
			assert.Equal(t, "https://example.org", baseURL)
			return []string{"https://example.org/articles/1", "https://example.org/articles/2"}, nil
		},
	}

	result, err := p.ProcessSite(context.Background(), "https://example.org", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	assert.Len(t, d.urls(), 2)
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("enforces per-domain rate", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewDomainLimiter(50)
		ctx := context.Background()

		begin := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(ctx, "example.org"))
		}
		// Two waits at 50 rps ≈ 40ms minimum
		assert.GreaterOrEqual(t, time.Since(begin), 30*time.Millisecond)
	})

	t.Run("domains do not share limits", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewDomainLimiter(1)
		ctx := context.Background()

		begin := time.Now()
		require.NoError(t, limiter.Wait(ctx, "a.example.org"))
		require.NoError(t, limiter.Wait(ctx, "b.example.org"))
		require.NoError(t, limiter.Wait(ctx, "c.example.org"))
		assert.Less(t, time.Since(begin), 500*time.Millisecond)
	})

	t.Run("returns error on cancelled context", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewDomainLimiter(0.001)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		require.NoError(t, limiter.Wait(ctx, "example.org"))
		err := limiter.Wait(ctx, "example.org")
		require.Error(t, err)
	})
}
