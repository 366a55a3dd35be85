package main

import (
	"fmt"
	"regexp"

	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/batch"
	"github.com/awitkowski/articlemd/fs"
	"github.com/awitkowski/articlemd/sqlite"
	"github.com/awitkowski/articlemd/webhook"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	var urlFilter *articlemd.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &articlemd.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	sinks := []articlemd.Sink{fs.NewWriter(c.OutDir)}
	if c.Store {
		if deps.Articles == nil {
			return fmt.Errorf("article store not configured")
		}
		sinks = append(sinks, sqlite.NewSink(deps.Articles))
	}
	if c.Webhook != "" {
		sinks = append(sinks, webhook.NewSink(c.Webhook, c.WebhookSecret))
	}

	processor := &batch.Processor{
		Sitemaps:    deps.Sitemaps,
		Fetcher:     deps.Fetcher,
		Parser:      deps.Parser,
		Sinks:       sinks,
		RateLimiter: batch.NewDomainLimiter(c.Rate),
		Concurrency: c.Concurrency,
		Mode:        articlemd.OutputMode(c.Mode),
	}

	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", event.Total)
		case batch.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s: %s\n",
				event.Completed, event.Total, event.URL, articlemd.ErrorMessage(event.Error))
		}
	}

	result, err := processor.ProcessSite(deps.Ctx, c.URL, urlFilter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", articlemd.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Delivered %d articles (%d failed, %d duplicates skipped, %d bytes)\n",
		result.Delivered, result.Failed, result.Skipped, result.Bytes)
	return nil
}
