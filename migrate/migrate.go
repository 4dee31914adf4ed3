// Package migrate drives a manifest through fetching, extraction and
// persistence, one item at a time.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/pagemig"
)

// Migrator migrates the pages named by a manifest into a RecordService.
type Migrator struct {
	Fetcher   pagemig.Fetcher
	Extractor pagemig.Extractor
	Records   pagemig.RecordService

	// Posts supplies blog metadata by slug and drives SyncPosts. Optional
	// for Run.
	Posts pagemig.PostService

	// PostParser builds blog records from API posts for SyncPosts.
	PostParser pagemig.PostParser

	// Limiter paces page fetches. Optional.
	Limiter pagemig.RateLimiter

	// BaseURL is the source site root that manifest paths resolve against.
	BaseURL string

	// DryRun previews records instead of writing them.
	DryRun bool

	// RetryDelays are the waits between fetch attempts. Nil uses
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Exporter receives every previewed record in a dry run. Optional.
	Exporter pagemig.RecordExporter

	// Converter renders blog content as Markdown in previews. Optional.
	Converter pagemig.Converter
}

// ProgressEvent reports progress during a migration run.
type ProgressEvent struct {
	Type    ProgressType
	Index   int
	Total   int
	Item    pagemig.ManifestItem
	URL     string
	Outcome pagemig.Outcome
	Preview *Preview
	Attempt int
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressFetching ProgressType = iota
	ProgressRetrying
	ProgressDone
	ProgressFailed
	ProgressPreview
)

// ProgressFunc is a callback for reporting migration progress.
type ProgressFunc func(event ProgressEvent)

// Run migrates every item of manifest whose type matches filter, in
// manifest order. An empty filter migrates every type.
//
// Per-item failures are recorded in the summary and never stop the run.
// Only an invalid manifest, a canceled context or a failed export commit
// return an error.
func (m *Migrator) Run(ctx context.Context, manifest pagemig.Manifest, filter pagemig.ContentType, progress ProgressFunc) (*pagemig.Summary, error) {
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	if filter != "" {
		if _, err := pagemig.ParseContentType(string(filter)); err != nil {
			return nil, err
		}
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	items := manifest.Filter(filter)
	summary := &pagemig.Summary{}
	terms := newTermCache(m.Posts)

	for i, item := range items {
		if m.Limiter != nil {
			if err := m.Limiter.Wait(ctx); err != nil {
				m.abort()
				return summary, err
			}
		}

		ev := ProgressEvent{Index: i, Total: len(items), Item: item}
		outcome, rec, preview, err := m.migrate(ctx, item, terms, ev, progress)
		if err != nil {
			if ctx.Err() != nil {
				m.abort()
				return summary, ctx.Err()
			}
			summary.Fail(item, err)
			ev.Type, ev.Outcome, ev.Error = ProgressFailed, pagemig.OutcomeFailed, err
			progress(ev)
			continue
		}

		summary.Add(outcome)
		if needsReview(rec) {
			summary.Flag(item.Slug)
		}

		ev.Outcome = outcome
		if preview != nil {
			ev.Type, ev.Preview = ProgressPreview, preview
		} else {
			ev.Type = ProgressDone
		}
		progress(ev)
	}

	if m.DryRun && m.Exporter != nil {
		if err := m.Exporter.Commit(); err != nil {
			return summary, fmt.Errorf("commit export: %w", err)
		}
	}
	return summary, nil
}

// migrate runs the fetch, extract and persist pipeline for one item.
func (m *Migrator) migrate(ctx context.Context, item pagemig.ManifestItem, terms *termCache, ev ProgressEvent, progress ProgressFunc) (pagemig.Outcome, pagemig.Record, *Preview, error) {
	pageURL, err := pagemig.ResolveURL(m.BaseURL, item.Path)
	if err != nil {
		return "", nil, nil, err
	}

	ev.Type, ev.URL = ProgressFetching, pageURL
	progress(ev)

	html, err := FetchWithRetryDelays(ctx, pageURL, m.Fetcher.Fetch, func(attempt int, err error) {
		retry := ev
		retry.Type, retry.Attempt, retry.Error = ProgressRetrying, attempt, err
		progress(retry)
	}, m.retryDelays())
	if err != nil {
		return "", nil, nil, err
	}

	// Title and meta description are left to the extractor, which reads
	// them from the HTML unless the API supplies a title.
	page := &pagemig.Page{Slug: item.Slug, URL: pageURL, HTML: html}

	var meta *pagemig.PostMeta
	if item.Type == pagemig.ContentTypeBlog && m.Posts != nil {
		post, err := m.Posts.FindPostBySlug(ctx, item.Slug)
		if err != nil {
			return "", nil, nil, fmt.Errorf("post metadata: %w", err)
		}
		if post != nil {
			if meta, err = postMeta(ctx, m.Posts, post, terms); err != nil {
				return "", nil, nil, fmt.Errorf("post metadata: %w", err)
			}
			page.Title = post.Title.Rendered
		}
	}

	rec, err := m.Extractor.Extract(page, item.Type, meta)
	if err != nil {
		return "", nil, nil, err
	}
	rec.Core().Slug = item.Slug

	if m.DryRun {
		preview, err := m.preview(ctx, rec)
		if err != nil {
			return "", nil, nil, err
		}
		return pagemig.OutcomePreviewed, rec, preview, nil
	}

	outcome, err := m.persist(ctx, rec)
	return outcome, rec, nil, err
}

// persist upserts records, except blog posts, which only update records
// created by SyncPosts. A missing blog record is a not_found outcome.
func (m *Migrator) persist(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
	if rec.Type() != pagemig.ContentTypeBlog {
		return m.Records.UpsertRecord(ctx, rec)
	}
	outcome, err := m.Records.UpdateRecord(ctx, rec)
	if pagemig.ErrorCode(err) == pagemig.ENOTFOUND {
		return pagemig.OutcomeNotFound, nil
	}
	return outcome, err
}

func (m *Migrator) preview(ctx context.Context, rec pagemig.Record) (*Preview, error) {
	p := NewPreview(rec)
	if post, ok := rec.(*pagemig.BlogPost); ok && m.Converter != nil && post.Content != "" {
		markdown, err := m.Converter.Convert(post.Content)
		if err != nil {
			return nil, fmt.Errorf("convert content: %w", err)
		}
		p.Markdown = markdown
	}
	if m.Exporter != nil {
		if err := m.Exporter.Export(ctx, rec); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	return p, nil
}

// abort discards a partial dry-run export.
func (m *Migrator) abort() {
	if m.DryRun && m.Exporter != nil {
		_ = m.Exporter.Abort()
	}
}

func (m *Migrator) retryDelays() []time.Duration {
	if m.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return m.RetryDelays
}

func needsReview(rec pagemig.Record) bool {
	d, ok := rec.(*pagemig.Destination)
	return ok && d.Circuit == pagemig.CircuitUnknown
}
