package pagemig

import "time"

// Extractor recovers a structured record from a fetched page.
//
// Extraction is best effort: missing structure yields empty fields, never an
// error. The only error is a content type the extractor does not know.
type Extractor interface {
	Extract(page *Page, t ContentType, meta *PostMeta) (Record, error)
}

// PostParser builds blog records from posts read through the structured API.
type PostParser interface {
	ParsePost(post *Post, meta *PostMeta) *BlogPost
}

// ContentExtractor isolates the main article content of a page whose
// markup carries no recognizable content container.
type ContentExtractor interface {
	ExtractContent(html, pageURL string) (*ExtractedContent, error)
}

// ExtractedContent is the main content recovered by a ContentExtractor.
type ExtractedContent struct {
	// HTML is the main content rendered as an HTML fragment.
	HTML string

	// PublishedAt is the publication date found in the page, if any.
	PublishedAt *time.Time
}

// ContentExtractors tries each extractor in order and returns the first
// result. If every extractor fails, the last error is returned.
type ContentExtractors []ContentExtractor

// ExtractContent implements ContentExtractor.
func (c ContentExtractors) ExtractContent(html, pageURL string) (*ExtractedContent, error) {
	var err error = Errorf(ENOTFOUND, "no content extractor configured")
	for _, e := range c {
		var out *ExtractedContent
		if out, err = e.ExtractContent(html, pageURL); err == nil && out != nil && out.HTML != "" {
			return out, nil
		}
		if err == nil {
			err = Errorf(ENOTFOUND, "no main content found")
		}
	}
	return nil, err
}
