package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/fs"
	"github.com/fwojciec/pagemig/goquery"
	"github.com/fwojciec/pagemig/htmltomarkdown"
	pmhttp "github.com/fwojciec/pagemig/http"
	"github.com/fwojciec/pagemig/json5"
	"github.com/fwojciec/pagemig/migrate"
	"github.com/fwojciec/pagemig/rate"
	"github.com/fwojciec/pagemig/readability"
	"github.com/fwojciec/pagemig/resty"
	"github.com/fwojciec/pagemig/rod"
	pmslog "github.com/fwojciec/pagemig/slog"
	"github.com/fwojciec/pagemig/sqlite"
	"github.com/fwojciec/pagemig/trafilatura"
)

//go:embed manifest.json5
var defaultManifest []byte

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Records  pagemig.RecordService
	Sitemaps pagemig.SitemapService
	Fetcher  pagemig.Fetcher
	Posts    pagemig.PostService

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagemig"),
		kong.Description("Migrate legacy travel-site pages into structured records."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"db_path": m.DBPath},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 {
		switch args[0] {
		case "help", "--help", "-h":
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Audits and dry runs never write, so they leave the database untouched.
	dryRun := (cmd == "migrate" && cli.Migrate.DryRun) || (cmd == "sync-posts" && cli.SyncPosts.DryRun)
	if cmd != "audit" && !dryRun {
		m.DBPath = cli.DB
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			fmt.Fprintf(stderr, "Hint: Set PAGEMIG_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		store := sqlite.NewRecordService(m.DB)
		deps.Timestamps = store
		if m.Records == nil {
			m.Records = store
			if logger != nil {
				m.Records = pmslog.NewLoggingRecordService(store, logger)
			}
		}
	}
	defer m.Close()
	deps.Records = m.Records

	if cmd == "show" {
		return kongCtx.Run(deps)
	}

	if cli.Source == "" {
		fmt.Fprintln(stderr, "Hint: Set PAGEMIG_SOURCE_URL or pass --source")
		return fmt.Errorf("source URL required")
	}
	if cli.Retries < 0 {
		return fmt.Errorf("--retries must not be negative")
	}
	deps.SourceURL = cli.Source

	if cmd == "migrate" || cmd == "audit" {
		manifest, err := loadManifest(cli.Manifest)
		if err != nil {
			return err
		}
		deps.Manifest = manifest
	}

	if cmd == "audit" {
		if m.Sitemaps == nil {
			m.Sitemaps = pmhttp.NewSitemapService(&http.Client{Timeout: cli.Timeout})
			if logger != nil {
				m.Sitemaps = pmslog.NewLoggingSitemapService(m.Sitemaps, logger)
			}
		}
		deps.Sitemaps = m.Sitemaps
		return kongCtx.Run(deps)
	}

	limiter := rate.NewLimiter(cli.Delay)

	if m.Posts == nil {
		m.Posts = resty.NewClient(cli.Source,
			resty.WithLimiter(limiter),
			resty.WithTimeout(cli.Timeout),
		)
		if logger != nil {
			m.Posts = pmslog.NewLoggingPostService(m.Posts, logger)
		}
	}

	if m.Fetcher == nil && cmd == "migrate" {
		fetcher, err := m.newFetcher(cli, stderr)
		if err != nil {
			return err
		}
		m.closers = append(m.closers, fetcher)
		m.Fetcher = fetcher
		if logger != nil {
			m.Fetcher = pmslog.NewLoggingFetcher(fetcher, logger)
		}
	}

	converter := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(cli.Source))
	extractor := goquery.NewExtractor(cli.MediaHost, pagemig.ContentExtractors{
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	})

	deps.Migrator = &migrate.Migrator{
		Fetcher:     m.Fetcher,
		Extractor:   extractor,
		Records:     m.Records,
		Posts:       m.Posts,
		PostParser:  extractor,
		Limiter:     limiter,
		BaseURL:     cli.Source,
		RetryDelays: retryDelays(cli.Retries),
		Converter:   converter,
	}
	deps.NewExporter = func(dir string) pagemig.RecordExporter {
		dir = filepath.Clean(dir)
		return fs.NewExporter(filepath.Dir(dir), filepath.Base(dir), fs.WithConverter(converter))
	}

	return kongCtx.Run(deps)
}

// newFetcher returns the page fetcher selected by the --browser flag.
func (m *Main) newFetcher(cli *CLI, stderr io.Writer) (pagemig.Fetcher, error) {
	if !cli.Browser {
		return pmhttp.NewFetcher(pmhttp.WithTimeout(cli.Timeout)), nil
	}
	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return fetcher, nil
}

// loadManifest reads the manifest at path, or the built-in manifest when
// path is empty.
func loadManifest(path string) (pagemig.Manifest, error) {
	if path == "" {
		return json5.LoadManifest(bytes.NewReader(defaultManifest))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, pagemig.Errorf(pagemig.EINVALID, "open manifest: %v", err)
	}
	defer f.Close()
	return json5.LoadManifest(f)
}

func defaultDBPath() string {
	if path := os.Getenv("PAGEMIG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagemig.db"
	}
	dir := filepath.Join(home, ".pagemig")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagemig.db")
}
