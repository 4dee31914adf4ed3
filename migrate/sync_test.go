package migrate_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/goquery"
	"github.com/fwojciec/pagemig/migrate"
	"github.com/fwojciec/pagemig/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postSeq(posts []*pagemig.Post, err error) iter.Seq2[*pagemig.Post, error] {
	return func(yield func(*pagemig.Post, error) bool) {
		for _, p := range posts {
			if !yield(p, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func postService(posts []*pagemig.Post, listErr error, termLoads *int) *mock.PostService {
	return &mock.PostService{
		FindPostsFn: func(context.Context) iter.Seq2[*pagemig.Post, error] {
			return postSeq(posts, listErr)
		},
		FindTermsFn: func(_ context.Context, taxonomy pagemig.Taxonomy) ([]*pagemig.Term, error) {
			*termLoads++
			return []*pagemig.Term{{ID: 1, Slug: "kilimanjaro"}, {ID: 2, Slug: "gear"}}, nil
		},
		FindMediaURLFn: func(_ context.Context, id int) (string, error) {
			if id == 404 {
				return "", pagemig.Errorf(pagemig.ENOTFOUND, "media %d not found", id)
			}
			return "https://example.com/wp-content/uploads/featured.jpg", nil
		},
	}
}

func testPosts() []*pagemig.Post {
	return []*pagemig.Post{
		{
			ID: 1, Slug: "packing-list", Link: "https://example.com/packing-list/",
			Date:          "2023-04-05T10:00:00",
			Title:         pagemig.Rendered{Rendered: "Packing List"},
			Content:       pagemig.Rendered{Rendered: "<p>Bring boots.</p>"},
			Categories:    []int{1},
			FeaturedMedia: 7,
		},
		{
			ID: 2, Slug: "best-time", Link: "https://example.com/best-time/",
			Title:         pagemig.Rendered{Rendered: "Best Time"},
			Content:       pagemig.Rendered{Rendered: "<p>Dry season.</p>"},
			Categories:    []int{1},
			Tags:          []int{2},
			FeaturedMedia: 404,
		},
	}
}

func TestMigrator_SyncPosts(t *testing.T) {
	t.Parallel()

	t.Run("upserts a record per post", func(t *testing.T) {
		t.Parallel()

		var termLoads int
		var saved []*pagemig.BlogPost
		m := &migrate.Migrator{
			Posts:      postService(testPosts(), nil, &termLoads),
			PostParser: goquery.NewExtractor("", nil),
			Records: &mock.RecordService{
				UpsertRecordFn: func(_ context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
					saved = append(saved, rec.(*pagemig.BlogPost))
					return pagemig.OutcomeCreated, nil
				},
			},
		}

		summary, err := m.SyncPosts(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Created)
		assert.Equal(t, 2, termLoads, "each taxonomy loads once")
		require.Len(t, saved, 2)
		assert.Equal(t, "packing-list", saved[0].Slug)
		assert.Equal(t, "https://example.com/wp-content/uploads/featured.jpg", saved[0].FeaturedImage)
		assert.Equal(t, []string{"kilimanjaro"}, saved[0].CategorySlugs)
		assert.Equal(t, "<p>Bring boots.</p>", saved[0].Content)
		assert.Empty(t, saved[1].FeaturedImage)
		assert.Equal(t, []string{"gear"}, saved[1].TagSlugs)
	})

	t.Run("dry run previews without writing", func(t *testing.T) {
		t.Parallel()

		var termLoads int
		m := &migrate.Migrator{
			Posts:      postService(testPosts(), nil, &termLoads),
			PostParser: goquery.NewExtractor("", nil),
			Records:    &mock.RecordService{},
			DryRun:     true,
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) { return "Bring boots.", nil },
			},
		}

		var previews []*migrate.Preview
		summary, err := m.SyncPosts(context.Background(), func(ev migrate.ProgressEvent) {
			if ev.Type == migrate.ProgressPreview {
				previews = append(previews, ev.Preview)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Previewed)
		require.Len(t, previews, 2)
		assert.Equal(t, "Bring boots.", previews[0].Markdown)
	})

	t.Run("isolates post failures", func(t *testing.T) {
		t.Parallel()

		var termLoads int
		m := &migrate.Migrator{
			Posts:      postService(testPosts(), nil, &termLoads),
			PostParser: goquery.NewExtractor("", nil),
			Records: &mock.RecordService{
				UpsertRecordFn: func(_ context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
					if rec.Core().Slug == "packing-list" {
						return "", errors.New("disk full")
					}
					return pagemig.OutcomeUnchanged, nil
				},
			},
		}

		summary, err := m.SyncPosts(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Unchanged)
	})

	t.Run("returns collection error", func(t *testing.T) {
		t.Parallel()

		var termLoads int
		m := &migrate.Migrator{
			Posts:      postService(testPosts()[:1], errors.New("fetch posts page 2: status 500"), &termLoads),
			PostParser: goquery.NewExtractor("", nil),
			Records: &mock.RecordService{
				UpsertRecordFn: func(context.Context, pagemig.Record) (pagemig.Outcome, error) {
					return pagemig.OutcomeCreated, nil
				},
			},
		}

		summary, err := m.SyncPosts(context.Background(), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "page 2")
		require.NotNil(t, summary)
		assert.Equal(t, 1, summary.Created)
	})

	t.Run("requires post service", func(t *testing.T) {
		t.Parallel()

		m := &migrate.Migrator{}

		_, err := m.SyncPosts(context.Background(), nil)

		require.Error(t, err)
		assert.Equal(t, pagemig.EINVALID, pagemig.ErrorCode(err))
	})
}
