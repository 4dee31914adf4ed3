package migrate

import (
	"context"
	"fmt"

	"github.com/fwojciec/pagemig"
)

// SyncPosts upserts a blog record for every post the content API
// publishes, so that blog items in a manifest have records to update.
//
// Posts are processed in API order. A post that fails to resolve or
// persist is recorded in the summary and the sync continues. A failed page
// of the posts collection ends the sync with an error.
func (m *Migrator) SyncPosts(ctx context.Context, progress ProgressFunc) (*pagemig.Summary, error) {
	if m.Posts == nil || m.PostParser == nil {
		return nil, pagemig.Errorf(pagemig.EINVALID, "post sync requires a post service and parser")
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	summary := &pagemig.Summary{}
	terms := newTermCache(m.Posts)

	var index int
	for post, err := range m.Posts.FindPosts(ctx) {
		if err != nil {
			m.abort()
			return summary, fmt.Errorf("list posts: %w", err)
		}

		item := pagemig.ManifestItem{Slug: post.Slug, Path: post.Link, Type: pagemig.ContentTypeBlog}
		ev := ProgressEvent{Index: index, Item: item, URL: post.Link}
		index++

		outcome, preview, err := m.syncPost(ctx, post, terms)
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

func (m *Migrator) syncPost(ctx context.Context, post *pagemig.Post, terms *termCache) (pagemig.Outcome, *Preview, error) {
	if post.Slug == "" {
		return "", nil, pagemig.Errorf(pagemig.EINVALID, "post %d has no slug", post.ID)
	}
	meta, err := postMeta(ctx, m.Posts, post, terms)
	if err != nil {
		return "", nil, err
	}

	rec := m.PostParser.ParsePost(post, meta)
	if m.DryRun {
		preview, err := m.preview(ctx, rec)
		if err != nil {
			return "", nil, err
		}
		return pagemig.OutcomePreviewed, preview, nil
	}

	outcome, err := m.Records.UpsertRecord(ctx, rec)
	return outcome, nil, err
}
