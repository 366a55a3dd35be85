package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/awitkowski/articlemd/goquery"
	articlehttp "github.com/awitkowski/articlemd/http"
	"github.com/awitkowski/articlemd/htmltomarkdown"
	articleslog "github.com/awitkowski/articlemd/slog"
	"github.com/awitkowski/articlemd/sqlite"
	"github.com/awitkowski/articlemd/trafilatura"
	"github.com/awitkowski/articlemd/vocab"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database, opened lazily by commands that store articles.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("articlemd"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'articlemd --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	vocabulary, err := vocab.Default()
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	pipeline := goquery.NewParser(htmltomarkdown.NewConverter(), vocabulary,
		goquery.WithFallbackExtractor(trafilatura.NewExtractor()))
	deps.Parser = articleslog.NewLoggingParser(pipeline, logger)

	fetcher := articlehttp.NewFetcher()
	defer fetcher.Close()
	deps.Fetcher = articleslog.NewLoggingFetcher(fetcher, logger)

	deps.Sitemaps = articleslog.NewLoggingSitemapService(articlehttp.NewSitemapService(nil), logger)

	// Only batch --store needs the database
	if cmd == "batch" && cli.Batch.Store {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set ARTICLEMD_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.Articles = sqlite.NewArticleService(m.DB)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("ARTICLEMD_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "articlemd.db"
	}
	dir := filepath.Join(home, ".articlemd")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "articlemd.db")
}
