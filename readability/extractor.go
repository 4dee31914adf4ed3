// Package readability isolates article content with go-readability when
// the primary content extractor finds nothing.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/pagemig"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagemig.ContentExtractor at compile time.
var _ pagemig.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractContent implements pagemig.ContentExtractor. Relative links in the
// content are resolved against pageURL when it parses.
func (e *Extractor) ExtractContent(rawHTML, pageURL string) (*pagemig.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagemig.Errorf(pagemig.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, pagemig.Errorf(pagemig.ENOTFOUND, "no main content found")
	}

	return &pagemig.ExtractedContent{HTML: article.Content}, nil
}
