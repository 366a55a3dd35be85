package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/awitkowski/articlemd"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Parser   articlemd.Parser
	Fetcher  articlemd.Fetcher
	Sitemaps articlemd.SitemapService
	Articles articlemd.ArticleService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Parse ParseCmd `cmd:"" help:"Parse a single HTML document into Markdown"`
	Batch BatchCmd `cmd:"" help:"Discover and process all articles on a site"`
	Serve ServeCmd `cmd:"" help:"Run the JSON API server"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Input    string `arg:"" optional:"" help:"HTML file to parse (reads stdin when omitted)"`
	URL      string `short:"u" help:"Fetch and parse this URL instead of a file"`
	Mode     string `short:"m" default:"standard" enum:"standard,semantic,yaml" help:"Output mode"`
	Flatten  bool   `help:"Flatten nested YAML front matter keys"`
	JSON     bool   `name:"json" help:"Emit front matter as JSON instead of YAML"`
	RecordID string `help:"Opaque record identifier echoed in the result"`
	Output   string `short:"o" help:"Write markdown to this file instead of stdout"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URL           string   `arg:"" help:"Site base URL to discover articles from"`
	Filter        []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Mode          string   `short:"m" default:"yaml" enum:"standard,semantic,yaml" help:"Output mode"`
	Concurrency   int      `short:"c" default:"10" help:"Concurrent fetch limit"`
	Rate          float64  `default:"1.0" help:"Requests per second per domain"`
	OutDir        string   `short:"d" default:"output" help:"Directory for markdown files"`
	Store         bool     `help:"Also store results in the article database"`
	Webhook       string   `help:"Also deliver results to this webhook URL"`
	WebhookSecret string   `env:"ARTICLEMD_WEBHOOK_SECRET" help:"Shared secret for webhook signatures"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}
