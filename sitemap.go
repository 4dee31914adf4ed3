package pagemig

import "context"

// SitemapService discovers page URLs from a site's sitemaps.
type SitemapService interface {
	// DiscoverURLs returns every page URL the site advertises. Sitemap
	// locations come from robots.txt, falling back to the conventional
	// WordPress and generic sitemap paths. Indexes are resolved recursively.
	// Returns an empty slice if the site has no sitemap.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
