package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/migrate"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	SourceURL string
	Manifest  pagemig.Manifest
	Records   pagemig.RecordService
	Sitemaps  pagemig.SitemapService
	Migrator  *migrate.Migrator

	// Timestamps reports when a stored record was last written. Optional.
	Timestamps RecordTimestamps

	// NewExporter returns the exporter for a dry run writing to dir.
	NewExporter func(dir string) pagemig.RecordExporter
}

// RecordTimestamps looks up record write times.
type RecordTimestamps interface {
	FindUpdatedAt(ctx context.Context, t pagemig.ContentType, slug string) (time.Time, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Source    string        `name:"source" env:"PAGEMIG_SOURCE_URL" help:"Root URL of the legacy site"`
	DB        string        `name:"db" env:"PAGEMIG_DB" default:"${db_path}" help:"Record database path"`
	Manifest  string        `name:"manifest" env:"PAGEMIG_MANIFEST" type:"path" help:"JSON5 manifest file (defaults to the built-in manifest)"`
	Delay     time.Duration `name:"delay" env:"PAGEMIG_DELAY" default:"1s" help:"Minimum spacing between requests to the source"`
	Timeout   time.Duration `name:"timeout" env:"PAGEMIG_TIMEOUT" default:"15s" help:"Per-request timeout"`
	Retries   int           `name:"retries" default:"2" help:"Fetch retries after the first attempt"`
	MediaHost string        `name:"media-host" env:"PAGEMIG_MEDIA_HOST" help:"Host that serves images (defaults to the source host)"`
	Browser   bool          `name:"browser" help:"Render pages in headless Chrome"`
	Verbose   bool          `short:"v" help:"Log every request and write"`

	Migrate   MigrateCmd   `cmd:"" default:"withargs" help:"Migrate manifest pages into the record store"`
	SyncPosts SyncPostsCmd `cmd:"" name:"sync-posts" help:"Create or refresh blog records from the content API"`
	Audit     AuditCmd     `cmd:"" help:"List sitemap URLs that the manifest does not cover"`
	Show      ShowCmd      `cmd:"" help:"Print a stored record as JSON"`
}

// MigrateCmd is the "migrate" subcommand.
type MigrateCmd struct {
	DryRun bool   `short:"n" name:"dry-run" help:"Preview records without writing them"`
	Type   string `short:"t" name:"type" help:"Only migrate one type (routes, safaris, destinations, daytrips, blog)"`
	Export string `name:"export" type:"path" help:"Write previewed records to this directory (dry run only)"`
}

// SyncPostsCmd is the "sync-posts" subcommand.
type SyncPostsCmd struct {
	DryRun bool   `short:"n" name:"dry-run" help:"Preview posts without writing them"`
	Export string `name:"export" type:"path" help:"Write previewed posts to this directory (dry run only)"`
}

// AuditCmd is the "audit" subcommand.
type AuditCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Type string `arg:"" help:"Content type (routes, safaris, destinations, daytrips, blog)"`
	Slug string `arg:"" help:"Record slug"`
}

// retryDelays returns n doubling delays starting at one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	for i := range n {
		delays = append(delays, time.Second<<i)
	}
	return delays
}
