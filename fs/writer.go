// Package fs provides file-based delivery of parsed articles.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/awitkowski/articlemd"
	"github.com/cespare/xxhash/v2"
)

// Ensure Writer implements articlemd.Sink at compile time.
var _ articlemd.Sink = (*Writer)(nil)

// Writer delivers parsed articles as markdown files under
// baseDir/md/<source label>/<title>.md. Re-delivering unchanged
// content leaves the existing file untouched.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Path returns the file path a result would be written to.
func (w *Writer) Path(result *articlemd.ParseResult) string {
	label := articlemd.DomainLabel(result.SourceURL)
	name := articlemd.SanitizeFilename(result.Metadata.Title) + ".md"
	return filepath.Join(w.baseDir, "md", label, name)
}

// Deliver writes the result's markdown to disk.
func (w *Writer) Deliver(ctx context.Context, result *articlemd.ParseResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := w.Path(result)

	if existing, err := os.ReadFile(fullPath); err == nil {
		if xxhash.Sum64(existing) == xxhash.Sum64String(result.Markdown) {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(result.Markdown), 0644)
}
