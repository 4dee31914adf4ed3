package mock

import "github.com/fwojciec/pagemig"

var _ pagemig.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagemig.Extractor.
type Extractor struct {
	ExtractFn func(page *pagemig.Page, t pagemig.ContentType, meta *pagemig.PostMeta) (pagemig.Record, error)
}

func (e *Extractor) Extract(page *pagemig.Page, t pagemig.ContentType, meta *pagemig.PostMeta) (pagemig.Record, error) {
	return e.ExtractFn(page, t, meta)
}

var _ pagemig.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of pagemig.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html, pageURL string) (*pagemig.ExtractedContent, error)
}

func (e *ContentExtractor) ExtractContent(html, pageURL string) (*pagemig.ExtractedContent, error) {
	return e.ExtractContentFn(html, pageURL)
}

var _ pagemig.PostParser = (*PostParser)(nil)

// PostParser is a mock implementation of pagemig.PostParser.
type PostParser struct {
	ParsePostFn func(post *pagemig.Post, meta *pagemig.PostMeta) *pagemig.BlogPost
}

func (p *PostParser) ParsePost(post *pagemig.Post, meta *pagemig.PostMeta) *pagemig.BlogPost {
	return p.ParsePostFn(post, meta)
}
