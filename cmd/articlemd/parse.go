package main

import (
	"fmt"
	"io"
	"os"

	"github.com/awitkowski/articlemd"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	html, sourceURL, err := c.readInput(deps)
	if err != nil {
		return err
	}

	result, err := deps.Parser.Parse(deps.Ctx, articlemd.ParseRequest{
		HTML:          html,
		SourceURL:     sourceURL,
		Mode:          articlemd.OutputMode(c.Mode),
		FlattenYAML:   c.Flatten,
		ConvertToJSON: c.JSON,
		RecordID:      c.RecordID,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", articlemd.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		return os.WriteFile(c.Output, []byte(result.Markdown), 0644)
	}

	_, err = io.WriteString(deps.Stdout, result.Markdown)
	return err
}

// readInput resolves the HTML source: a URL, a file, or stdin.
func (c *ParseCmd) readInput(deps *Dependencies) (html, sourceURL string, err error) {
	if c.URL != "" {
		if c.Input != "" {
			return "", "", fmt.Errorf("cannot combine a file argument with --url")
		}
		html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", articlemd.ErrorMessage(err))
			return "", "", err
		}
		return html, c.URL, nil
	}

	if c.Input != "" && c.Input != "-" {
		data, err := os.ReadFile(c.Input)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", c.Input, err)
		}
		return string(data), "", nil
	}

	data, err := io.ReadAll(deps.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "", nil
}
