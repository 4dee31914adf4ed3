package pagemig

import (
	"context"
	"encoding/json"
	"iter"
	"strings"
	"time"
)

// REST endpoints of the content source, relative to its API root.
const (
	EndpointPosts      = "posts"
	EndpointPages      = "pages"
	EndpointMedia      = "media"
	EndpointCategories = "categories"
	EndpointTags       = "tags"
)

// ContentAPI reads the paginated structured API of the content source.
type ContentAPI interface {
	// Collection returns a lazy sequence over every item of endpoint,
	// requesting pageSize items per page in increasing page order.
	// Ranging over the sequence again restarts from the first page.
	// An HTTP 400 or an empty page ends the sequence normally; any other
	// non-2xx status yields one error naming the endpoint and page.
	Collection(ctx context.Context, endpoint string, pageSize int) iter.Seq2[json.RawMessage, error]

	// FindBySlug returns the first item of endpoint with the given slug,
	// or nil if there is none.
	FindBySlug(ctx context.Context, endpoint, slug string) (json.RawMessage, error)
}

// Rendered is a field the API returns as rendered HTML.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Post is a blog post as returned by the posts endpoint.
type Post struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Date          string   `json:"date"`
	Link          string   `json:"link"`
	Title         Rendered `json:"title"`
	Excerpt       Rendered `json:"excerpt"`
	Content       Rendered `json:"content"`
	Categories    []int    `json:"categories"`
	Tags          []int    `json:"tags"`
	FeaturedMedia int      `json:"featured_media"`
}

// PublishedAt parses the post date. The API reports site-local time
// without an offset; it is interpreted as UTC.
func (p *Post) PublishedAt() *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(p.Date)); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// Taxonomy names a term collection.
type Taxonomy string

// Supported taxonomies.
const (
	TaxonomyCategories Taxonomy = EndpointCategories
	TaxonomyTags       Taxonomy = EndpointTags
)

// Term is a category or tag.
type Term struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PostService provides typed access to blog posts and their taxonomies.
type PostService interface {
	// FindPosts returns a lazy sequence over every published post.
	FindPosts(ctx context.Context) iter.Seq2[*Post, error]

	// FindPostBySlug returns the post with slug, or nil if there is none.
	FindPostBySlug(ctx context.Context, slug string) (*Post, error)

	// FindTerms returns every term of a taxonomy.
	FindTerms(ctx context.Context, taxonomy Taxonomy) ([]*Term, error)

	// FindMediaURL returns the source URL of a media item.
	// Returns ENOTFOUND if the media item does not exist.
	FindMediaURL(ctx context.Context, id int) (string, error)
}

// PostMeta is structured metadata about a blog post, supplied to the
// extraction layer alongside the raw HTML.
type PostMeta struct {
	PublishedAt   *time.Time
	Excerpt       string
	FeaturedImage string
	CategorySlugs []string
	TagSlugs      []string
}
