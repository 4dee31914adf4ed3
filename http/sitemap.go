package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagemig"
)

// Ensure SitemapService implements pagemig.SitemapService.
var _ pagemig.SitemapService = (*SitemapService)(nil)

// sitemapPaths are probed in order when robots.txt names no sitemap.
var sitemapPaths = []string{"/wp-sitemap.xml", "/sitemap_index.xml", "/sitemap.xml"}

// SitemapService discovers page URLs from the source site's sitemaps.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs implements pagemig.SitemapService.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, pagemig.Errorf(pagemig.EINVALID, "invalid base URL %q", baseURL)
	}
	base.Path = ""

	roots, err := s.findSitemaps(ctx, base)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenMaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, root := range roots {
		locs, err := s.walk(ctx, root, seenMaps)
		if err != nil {
			return nil, err
		}
		for _, u := range locs {
			if !seenURLs[u] {
				seenURLs[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls, nil
}

func (s *SitemapService) findSitemaps(ctx context.Context, base *url.URL) ([]string, error) {
	robots := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if maps, err := s.robotsSitemaps(ctx, robots); err == nil && len(maps) > 0 {
		return maps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, p := range sitemapPaths {
		candidate := base.ResolveReference(&url.URL{Path: p}).String()
		body, err := s.get(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		body.Close()
		return []string{candidate}, nil
	}
	return nil, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var maps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "sitemap") {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			maps = append(maps, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	return maps, nil
}

// walk returns the page URLs reachable from a sitemap, following
// <sitemapindex> entries. Each sitemap is fetched at most once.
func (s *SitemapService) walk(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parse sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse sitemap %s: empty document", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}

	var urls []string
	for _, child := range locs(root, "sitemap") {
		found, err := s.walk(ctx, child, seen)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// locs returns the non-empty <loc> text of every tag child of root.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &pagemig.FetchError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
