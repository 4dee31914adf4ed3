package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemig"
	"golang.org/x/net/html"
)

// contentContainers locate the post body, most specific first.
var contentContainers = []string{
	".entry-content",
	"article .elementor-widget-theme-post-content",
	"article",
	"main",
}

// keptAttrs are the only attributes that survive content cleaning.
var keptAttrs = map[string]bool{
	"href": true, "src": true, "alt": true, "title": true,
	"colspan": true, "rowspan": true,
}

const excerptLength = 300

// ParseBlog recovers a blog post. The content stays HTML; only wrapper
// markup, attributes and embedded scripts and styles are removed. meta may
// be nil.
func (e *Extractor) ParseBlog(page *pagemig.Page, meta *pagemig.PostMeta) *pagemig.BlogPost {
	if meta == nil {
		meta = &pagemig.PostMeta{}
	}
	d := e.load(page)

	b := &pagemig.BlogPost{
		Base:          d.base(),
		PublishedAt:   meta.PublishedAt,
		CategorySlugs: orEmpty(meta.CategorySlugs),
		TagSlugs:      orEmpty(meta.TagSlugs),
	}

	imgs := d.images
	if container := firstMatch(d.root, contentContainers); container != nil {
		fragment, _ := container.Html()
		b.Content = CleanContent(fragment)
		imgs = images(container, e.mediaHost(d.page))
	} else {
		b.Content = e.fallbackContent(d, b)
	}
	setGallery(&b.Base, imgs, meta.FeaturedImage)

	b.Excerpt = StripHTML(meta.Excerpt)
	if b.Excerpt == "" {
		b.Excerpt = b.MetaDescription
	}
	if b.Excerpt == "" {
		b.Excerpt = truncate(overview(d.blocks, d.root), excerptLength)
	}

	if b.PublishedAt == nil {
		b.PublishedAt = publishedAt(d.doc)
	}
	return b
}

// Ensure Extractor implements pagemig.PostParser at compile time.
var _ pagemig.PostParser = (*Extractor)(nil)

// ParsePost builds a blog post from a structured API post. The rendered
// content is cleaned the same way as scraped content. meta may be nil.
func (e *Extractor) ParsePost(post *pagemig.Post, meta *pagemig.PostMeta) *pagemig.BlogPost {
	if meta == nil {
		meta = &pagemig.PostMeta{}
	}
	content := CleanContent(post.Content.Rendered)

	b := &pagemig.BlogPost{
		Base: pagemig.Base{
			Slug:  post.Slug,
			Title: CleanTitle(StripHTML(post.Title.Rendered)),
		},
		Content:       content,
		Excerpt:       StripHTML(post.Excerpt.Rendered),
		PublishedAt:   meta.PublishedAt,
		CategorySlugs: orEmpty(meta.CategorySlugs),
		TagSlugs:      orEmpty(meta.TagSlugs),
	}
	if b.PublishedAt == nil {
		b.PublishedAt = post.PublishedAt()
	}
	if b.Excerpt == "" {
		b.Excerpt = truncate(StripHTML(content), excerptLength)
	}
	b.MetaDescription = b.Excerpt

	host := e.mediaHost(&pagemig.Page{URL: post.Link})
	setGallery(&b.Base, images(parse(content).Selection, host), meta.FeaturedImage)
	return b
}

// fallbackContent asks the fallback extractor for the main content, and
// cleans the whole page body when there is none.
func (e *Extractor) fallbackContent(d *document, b *pagemig.BlogPost) string {
	if e.Fallback != nil {
		res, err := e.Fallback.ExtractContent(d.page.HTML, d.page.URL)
		if err == nil && res != nil && strings.TrimSpace(res.HTML) != "" {
			if b.PublishedAt == nil {
				b.PublishedAt = res.PublishedAt
			}
			return CleanContent(res.HTML)
		}
	}
	fragment, _ := d.root.Html()
	return CleanContent(fragment)
}

func firstMatch(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, s := range selectors {
		if sel := root.Find(s).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// CleanContent reduces page-builder HTML to a plain content fragment.
// Scripts, styles, comments and layout wrappers are removed, lazy images
// get their real source, and only descriptive attributes are kept.
func CleanContent(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	body := parse(fragment).Find("body")

	body.Find("script, style, noscript, template, link, meta, form, button, input, svg, iframe[src*='googletagmanager']").Remove()
	removeComments(body.Nodes...)

	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range lazyAttrs {
			if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" && !isPlaceholder(v) {
				img.SetAttr("src", strings.TrimSpace(v))
				return
			}
		}
		img.Remove()
	})

	wrappers := body.Find("div, span, section, font, center")
	for i := wrappers.Length() - 1; i >= 0; i-- {
		w := wrappers.Eq(i)
		if contents := w.Contents(); contents.Length() > 0 {
			contents.Unwrap()
		} else {
			w.Remove()
		}
	}

	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			attrs := n.Attr[:0]
			for _, a := range n.Attr {
				if keptAttrs[a.Key] {
					attrs = append(attrs, a)
				}
			}
			n.Attr = attrs
		}
	})

	body.Find("p, h1, h2, h3, h4, h5, h6, li, strong, em").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Find("img").Length() == 0 {
			s.Remove()
		}
	})

	out, err := body.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(out, "\n"))
}

func removeComments(nodes ...*html.Node) {
	for _, n := range nodes {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.CommentNode {
				n.RemoveChild(c)
			} else {
				removeComments(c)
			}
			c = next
		}
	}
}

func publishedAt(doc *goquery.Document) *time.Time {
	candidates := []string{
		metaContent(doc, `meta[property="article:published_time"]`),
	}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, v)
	}
	for _, c := range candidates {
		if t := parseDate(c); t != nil {
			return t
		}
	}
	return nil
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// setGallery promotes featured, or the first image when featured is empty,
// and keeps the remaining images in document order.
func setGallery(b *pagemig.Base, imgs []image, featured string) {
	b.FeaturedImage = featured
	b.Gallery = []string{}
	for _, img := range imgs {
		switch {
		case b.FeaturedImage == "":
			b.FeaturedImage = img.URL
		case img.URL != b.FeaturedImage:
			b.Gallery = append(b.Gallery, img.URL)
		}
	}
}
