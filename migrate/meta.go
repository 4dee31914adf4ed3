package migrate

import (
	"context"

	"github.com/fwojciec/pagemig"
)

// termCache loads each taxonomy once per run and maps term ids to slugs.
// A failed load is retried on the next lookup.
type termCache struct {
	posts pagemig.PostService
	slugs map[pagemig.Taxonomy]map[int]string
}

func newTermCache(posts pagemig.PostService) *termCache {
	return &termCache{posts: posts, slugs: make(map[pagemig.Taxonomy]map[int]string)}
}

func (c *termCache) lookup(ctx context.Context, taxonomy pagemig.Taxonomy, ids []int) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	byID, ok := c.slugs[taxonomy]
	if !ok {
		terms, err := c.posts.FindTerms(ctx, taxonomy)
		if err != nil {
			return nil, err
		}
		byID = make(map[int]string, len(terms))
		for _, t := range terms {
			byID[t.ID] = t.Slug
		}
		c.slugs[taxonomy] = byID
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if slug, ok := byID[id]; ok {
			out = append(out, slug)
		}
	}
	return out, nil
}

// postMeta resolves the taxonomy and media references of an API post.
// A featured media id that no longer exists leaves the image empty.
func postMeta(ctx context.Context, posts pagemig.PostService, post *pagemig.Post, terms *termCache) (*pagemig.PostMeta, error) {
	meta := &pagemig.PostMeta{
		PublishedAt: post.PublishedAt(),
		Excerpt:     post.Excerpt.Rendered,
	}

	var err error
	if meta.CategorySlugs, err = terms.lookup(ctx, pagemig.TaxonomyCategories, post.Categories); err != nil {
		return nil, err
	}
	if meta.TagSlugs, err = terms.lookup(ctx, pagemig.TaxonomyTags, post.Tags); err != nil {
		return nil, err
	}

	if post.FeaturedMedia > 0 {
		u, err := posts.FindMediaURL(ctx, post.FeaturedMedia)
		switch {
		case pagemig.ErrorCode(err) == pagemig.ENOTFOUND:
		case err != nil:
			return nil, err
		default:
			meta.FeaturedImage = u
		}
	}
	return meta, nil
}
