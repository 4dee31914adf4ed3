// Package trafilatura isolates the main content of blog pages whose markup
// has no recognizable content container.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/pagemig"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagemig.ContentExtractor at compile time.
var _ pagemig.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content and the
// publication date from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractContent implements pagemig.ContentExtractor.
func (e *Extractor) ExtractContent(rawHTML, pageURL string) (*pagemig.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagemig.Errorf(pagemig.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
		IncludeLinks:   true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}
	if result.ContentNode == nil {
		return nil, pagemig.Errorf(pagemig.ENOTFOUND, "no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	out := &pagemig.ExtractedContent{HTML: contentHTML}
	if !result.Metadata.Date.IsZero() {
		date := result.Metadata.Date.UTC()
		out.PublishedAt = &date
	}
	return out, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
