package goquery_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/goquery"
	"github.com/fwojciec/pagemig/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogHTML = `<html><head>
<title>Kilimanjaro Packing List &#8211; What to Bring | Summit Expeditions</title>
<meta name="description" content="Everything to pack for the climb.">
<meta property="article:published_time" content="2023-04-05T10:00:00+00:00">
</head><body>
<header><img src="https://example.com/wp-content/uploads/logo.png"></header>
<article>
<div class="entry-content">
<style>.elementor-element{margin:0}</style>
<div class="elementor-widget" data-id="abc"><div class="elementor-widget-container">
<p class="lead" style="color:red">Pack <strong>layers</strong> for every climate zone.</p>
<script>track()</script>
<!-- builder comment -->
<img data-src="https://example.com/wp-content/uploads/2023/04/boots.jpg" src="data:image/gif;base64,AA" class="lazy">
<p></p>
<h2 id="gear">Gear</h2>
<ul><li>Sleeping bag</li></ul>
<img src="https://example.com/wp-content/uploads/2023/04/poles.jpg">
</div></div>
</div>
</article>
<footer>Copyright</footer>
</body></html>`

func TestExtractor_ParseBlog(t *testing.T) {
	t.Parallel()

	t.Run("keeps cleaned content HTML", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewExtractor("", nil).ParseBlog(newPage("kilimanjaro-packing-list", "https://example.com/blog/packing/", blogHTML), nil)

		assert.Equal(t, "Kilimanjaro Packing List – What to Bring", b.Title)
		assert.Contains(t, b.Content, "<p>Pack <strong>layers</strong> for every climate zone.</p>")
		assert.Contains(t, b.Content, `<h2>Gear</h2>`)
		assert.Contains(t, b.Content, `<li>Sleeping bag</li>`)
		assert.Contains(t, b.Content, `src="https://example.com/wp-content/uploads/2023/04/boots.jpg"`)
		assert.NotContains(t, b.Content, "<style")
		assert.NotContains(t, b.Content, "track()")
		assert.NotContains(t, b.Content, "builder comment")
		assert.NotContains(t, b.Content, "class=")
		assert.NotContains(t, b.Content, "<div")
		assert.NotContains(t, b.Content, "<p></p>")

		assert.Equal(t, "https://example.com/wp-content/uploads/2023/04/boots.jpg", b.FeaturedImage)
		assert.Equal(t, []string{"https://example.com/wp-content/uploads/2023/04/poles.jpg"}, b.Gallery)
		assert.Equal(t, "Everything to pack for the climb.", b.Excerpt)
		require.NotNil(t, b.PublishedAt)
		assert.Equal(t, time.Date(2023, 4, 5, 10, 0, 0, 0, time.UTC), *b.PublishedAt)
		assert.Empty(t, b.CategorySlugs)
	})

	t.Run("prefers API metadata", func(t *testing.T) {
		t.Parallel()

		published := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
		meta := &pagemig.PostMeta{
			PublishedAt:   &published,
			Excerpt:       "<p>Short &amp; sweet</p>",
			FeaturedImage: "https://example.com/wp-content/uploads/2023/04/featured.jpg",
			CategorySlugs: []string{"trekking"},
			TagSlugs:      []string{"kilimanjaro", "gear"},
		}

		b := goquery.NewExtractor("", nil).ParseBlog(newPage("kilimanjaro-packing-list", "https://example.com/blog/packing/", blogHTML), meta)

		assert.Equal(t, "Short & sweet", b.Excerpt)
		assert.Equal(t, &published, b.PublishedAt)
		assert.Equal(t, "https://example.com/wp-content/uploads/2023/04/featured.jpg", b.FeaturedImage)
		assert.Equal(t, []string{
			"https://example.com/wp-content/uploads/2023/04/boots.jpg",
			"https://example.com/wp-content/uploads/2023/04/poles.jpg",
		}, b.Gallery)
		assert.Equal(t, []string{"trekking"}, b.CategorySlugs)
		assert.Equal(t, []string{"kilimanjaro", "gear"}, b.TagSlugs)
	})

	t.Run("uses fallback when no container matches", func(t *testing.T) {
		t.Parallel()

		published := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
		var gotURL string
		fallback := &mock.ContentExtractor{
			ExtractContentFn: func(html, pageURL string) (*pagemig.ExtractedContent, error) {
				gotURL = pageURL
				return &pagemig.ExtractedContent{HTML: `<div><p>Main text</p></div>`, PublishedAt: &published}, nil
			},
		}
		page := newPage("p", "https://example.com/blog/p/", `<body><div class="wrap"><p>Main text</p></div></body>`)

		b := goquery.NewExtractor("", fallback).ParseBlog(page, nil)

		assert.Equal(t, "https://example.com/blog/p/", gotURL)
		assert.Equal(t, "<p>Main text</p>", b.Content)
		assert.Equal(t, &published, b.PublishedAt)
	})

	t.Run("cleans whole body when fallback fails", func(t *testing.T) {
		t.Parallel()

		fallback := &mock.ContentExtractor{
			ExtractContentFn: func(html, pageURL string) (*pagemig.ExtractedContent, error) {
				return nil, errors.New("no content")
			},
		}
		page := newPage("p", "https://example.com/blog/p/", `<body><div class="wrap"><p>Body text</p><script>x()</script></div></body>`)

		b := goquery.NewExtractor("", fallback).ParseBlog(page, nil)

		assert.Equal(t, "<p>Body text</p>", b.Content)
		assert.Nil(t, b.PublishedAt)
	})
}

func TestExtractor_ParsePost(t *testing.T) {
	t.Parallel()

	post := &pagemig.Post{
		ID:      42,
		Slug:    "best-time-to-climb",
		Date:    "2022-11-02T09:15:00",
		Link:    "https://example.com/best-time-to-climb/",
		Title:   pagemig.Rendered{Rendered: "Best Time to Climb &#8211; Kilimanjaro"},
		Excerpt: pagemig.Rendered{Rendered: "<p>Dry seasons are best.&nbsp;</p>"},
		Content: pagemig.Rendered{Rendered: `<div class="wp-block-group"><p style="x">January and February.</p>` +
			`<img src="https://example.com/wp-content/uploads/2022/11/summit-300x300.jpg">` +
			`<img src="https://example.com/wp-content/uploads/2022/11/crater.jpg">` +
			`<img src="https://example.com/wp-content/uploads/2022/11/glacier.jpg"></div>`},
	}

	t.Run("builds post from API fields", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewExtractor("", nil)
		b := e.ParsePost(post, &pagemig.PostMeta{
			FeaturedImage: "https://example.com/wp-content/uploads/2022/11/crater.jpg",
			CategorySlugs: []string{"kilimanjaro"},
		})

		assert.Equal(t, "best-time-to-climb", b.Slug)
		assert.Equal(t, "Best Time to Climb \u2013 Kilimanjaro", b.Title)
		assert.Equal(t, "Dry seasons are best.", b.Excerpt)
		assert.Contains(t, b.Content, "<p>January and February.</p>")
		assert.NotContains(t, b.Content, "wp-block-group")
		assert.Equal(t, "https://example.com/wp-content/uploads/2022/11/crater.jpg", b.FeaturedImage)
		assert.Equal(t, []string{"https://example.com/wp-content/uploads/2022/11/glacier.jpg"}, b.Gallery)
		assert.Equal(t, []string{"kilimanjaro"}, b.CategorySlugs)
		assert.Equal(t, []string{}, b.TagSlugs)
		require.NotNil(t, b.PublishedAt)
		assert.Equal(t, time.Date(2022, 11, 2, 9, 15, 0, 0, time.UTC), *b.PublishedAt)
	})

	t.Run("handles nil meta", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewExtractor("", nil)
		b := e.ParsePost(post, nil)

		assert.Equal(t, "https://example.com/wp-content/uploads/2022/11/crater.jpg", b.FeaturedImage)
		assert.Empty(t, b.CategorySlugs)
	})
}

func TestCleanContent(t *testing.T) {
	t.Parallel()

	t.Run("unwraps builder markup", func(t *testing.T) {
		t.Parallel()

		got := goquery.CleanContent(`<section class="s"><div class="a"><span style="x">Hello</span> <a href="/x" class="btn" target="_blank">link</a></div></section>`)

		assert.Equal(t, `Hello <a href="/x">link</a>`, got)
	})

	t.Run("drops images without usable source", func(t *testing.T) {
		t.Parallel()

		got := goquery.CleanContent(`<p>Text<img src="data:image/gif;base64,AA"></p>`)

		assert.Equal(t, `<p>Text</p>`, got)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.CleanContent(" "))
	})
}
