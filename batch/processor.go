// Package batch orchestrates bulk processing of article URLs: sitemap
// discovery, rate-limited fetching, parsing, and delivery to sinks.
package batch

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/bloom"
	"golang.org/x/sync/errgroup"
)

// Bloom filter sizing for URL deduplication.
const (
	dedupeExpectedURLs      = 10000
	dedupeFalsePositiveRate = 0.01
)

// Processor coordinates the batch pipeline.
type Processor struct {
	Sitemaps    articlemd.SitemapService
	Fetcher     articlemd.Fetcher
	Parser      articlemd.Parser
	Sinks       []articlemd.Sink
	RateLimiter articlemd.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Mode and front-matter options applied to every request.
	Mode          articlemd.OutputMode
	FlattenYAML   bool
	ConvertToJSON bool
}

// Result holds the outcome of a batch run.
type Result struct {
	Delivered int
	Failed    int
	Skipped   int
	Bytes     int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// urlResult holds the outcome of processing a single URL.
type urlResult struct {
	position int
	url      string
	result   *articlemd.ParseResult
	err      error
}

// ProcessSite discovers article URLs from the site's sitemap and
// processes each one. The progress callback, if provided, receives
// events as processing proceeds.
func (p *Processor) ProcessSite(ctx context.Context, baseURL string, filter *articlemd.URLFilter, progress ProgressFunc) (*Result, error) {
	urls, err := p.Sitemaps.DiscoverURLs(ctx, baseURL, filter)
	if err != nil {
		return nil, err
	}
	return p.ProcessURLs(ctx, urls, progress)
}

// ProcessURLs fetches, parses, and delivers each URL. Duplicate URLs
// are skipped. One failing URL never aborts the rest of the batch.
func (p *Processor) ProcessURLs(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	seen := bloom.NewFilter(dedupeExpectedURLs, dedupeFalsePositiveRate)
	var unique []string
	var skipped int
	for _, u := range urls {
		if seen.Seen(u) {
			skipped++
			continue
		}
		unique = append(unique, u)
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	total := len(unique)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan urlResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range unique {
			i, u := i, u
			g.Go(func() error {
				resultCh <- p.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]urlResult, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
		}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
		} else {
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	out := &Result{Skipped: skipped}
	for _, r := range results {
		if r.err != nil {
			out.Failed++
			continue
		}

		delivered := true
		for _, sink := range p.Sinks {
			if err := sink.Deliver(ctx, r.result); err != nil {
				delivered = false
				break
			}
		}
		if !delivered {
			out.Failed++
			continue
		}

		out.Delivered++
		out.Bytes += len(r.result.Markdown)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return out, nil
}

// processURL fetches and parses a single URL.
func (p *Processor) processURL(ctx context.Context, position int, rawURL string) urlResult {
	r := urlResult{position: position, url: rawURL}

	if p.RateLimiter != nil {
		if err := p.RateLimiter.Wait(ctx, domainOf(rawURL)); err != nil {
			r.err = err
			return r
		}
	}

	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, p.Fetcher.Fetch, delays)
	if err != nil {
		r.err = err
		return r
	}

	result, err := p.Parser.Parse(ctx, articlemd.ParseRequest{
		HTML:          html,
		SourceURL:     rawURL,
		Mode:          p.Mode,
		FlattenYAML:   p.FlattenYAML,
		ConvertToJSON: p.ConvertToJSON,
	})
	if err != nil {
		r.err = err
		return r
	}

	r.result = result
	return r
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
