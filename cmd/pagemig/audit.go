package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/fwojciec/pagemig"
)

// Run executes the audit command.
func (c *AuditCmd) Run(deps *Dependencies) error {
	source, err := url.Parse(deps.SourceURL)
	if err != nil || source.Host == "" {
		err := pagemig.Errorf(pagemig.EINVALID, "invalid source URL %q", deps.SourceURL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}

	urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, deps.SourceURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}

	covered := make(map[string]bool, len(deps.Manifest))
	for p := range deps.Manifest.Paths() {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
		covered[normalizePath(p)] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || !strings.EqualFold(u.Hostname(), source.Hostname()) {
			continue
		}
		p := normalizePath(u.Path)
		if seen[p] {
			continue
		}
		seen[p] = true
		if !covered[p] {
			missing = append(missing, raw)
		}
	}

	var stale []string
	for p := range covered {
		if !seen[p] {
			stale = append(stale, p)
		}
	}
	sort.Strings(stale)

	fmt.Fprintf(deps.Stdout, "Sitemap URLs not in manifest: %d\n", len(missing))
	for _, u := range missing {
		fmt.Fprintf(deps.Stdout, "  %s\n", u)
	}
	if len(stale) > 0 {
		fmt.Fprintf(deps.Stdout, "\nManifest paths not in sitemap: %d\n", len(stale))
		for _, p := range stale {
			fmt.Fprintf(deps.Stdout, "  %s\n", p)
		}
	}
	return nil
}

// normalizePath makes paths comparable regardless of slashes.
func normalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
