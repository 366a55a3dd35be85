// Package slog provides logging decorators for articlemd services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/awitkowski/articlemd"
)

// Ensure LoggingParser implements articlemd.Parser.
var _ articlemd.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with structured logging.
type LoggingParser struct {
	next   articlemd.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next articlemd.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the outcome.
func (p *LoggingParser) Parse(ctx context.Context, req articlemd.ParseRequest) (result *articlemd.ParseResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.SourceURL,
			"mode", string(req.Mode),
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"title", result.Metadata.Title,
				"sections", len(result.Sections),
			)
		}
		p.logger.Info("parse", attrs...)
	}(time.Now())
	return p.next.Parse(ctx, req)
}
