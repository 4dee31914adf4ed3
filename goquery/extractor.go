package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemig"
)

// Ensure Extractor implements pagemig.Extractor at compile time.
var _ pagemig.Extractor = (*Extractor)(nil)

// Extractor parses pages into records by content type.
type Extractor struct {
	// MediaHost restricts images to one host. When empty, the host of the
	// page URL is used.
	MediaHost string

	// Fallback isolates blog content when the page has no known content
	// container. Optional.
	Fallback pagemig.ContentExtractor
}

// NewExtractor returns an Extractor for images served from mediaHost.
func NewExtractor(mediaHost string, fallback pagemig.ContentExtractor) *Extractor {
	return &Extractor{MediaHost: mediaHost, Fallback: fallback}
}

// Extract implements pagemig.Extractor.
func (e *Extractor) Extract(page *pagemig.Page, t pagemig.ContentType, meta *pagemig.PostMeta) (pagemig.Record, error) {
	switch t {
	case pagemig.ContentTypeRoute:
		return e.ParseRoute(page), nil
	case pagemig.ContentTypeSafari:
		return e.ParseSafari(page), nil
	case pagemig.ContentTypeDestination:
		return e.ParseDestination(page), nil
	case pagemig.ContentTypeDayTrip:
		return e.ParseDayTrip(page), nil
	case pagemig.ContentTypeBlog:
		return e.ParseBlog(page, meta), nil
	}
	return nil, pagemig.Errorf(pagemig.EINVALID, "unknown content type %q", t)
}

// document is a page parsed once and shared by every heuristic.
type document struct {
	page   *pagemig.Page
	doc    *goquery.Document
	root   *goquery.Selection
	blocks []block
	title  string
	text   string
	lines  []string
	images []image
}

func (e *Extractor) load(page *pagemig.Page) *document {
	if page == nil {
		page = &pagemig.Page{}
	}
	doc := parse(page.HTML)
	root := contentRoot(doc)

	d := &document{
		page:   page,
		doc:    doc,
		root:   root,
		blocks: outline(root),
		text:   selectionText(root),
		lines:  selectionLines(root),
		images: images(root, e.mediaHost(page)),
	}

	d.title = CleanTitle(page.Title)
	if d.title == "" {
		d.title = CleanTitle(title(doc))
	}
	return d
}

func (e *Extractor) mediaHost(page *pagemig.Page) string {
	if e.MediaHost != "" {
		return e.MediaHost
	}
	if u, err := url.Parse(page.URL); err == nil {
		return u.Host
	}
	return ""
}

// base fills the fields every record shares.
func (d *document) base() pagemig.Base {
	b := pagemig.Base{
		Slug:            d.page.Slug,
		Title:           d.title,
		MetaTitle:       metaTitle(d.doc),
		MetaDescription: collapseSpace(DecodeEntities(d.page.MetaDescription)),
	}
	if b.MetaDescription == "" {
		b.MetaDescription = metaDescription(d.doc)
	}
	setGallery(&b, d.images, "")
	return b
}

// ParseRoute recovers a trekking route.
func (e *Extractor) ParseRoute(page *pagemig.Page) *pagemig.Route {
	d := e.load(page)
	r := &pagemig.Route{
		Base:           d.base(),
		Overview:       overview(d.blocks, d.root),
		Highlights:     orEmpty(highlights(d.blocks)),
		Itinerary:      itinerary(d.blocks),
		Inclusions:     orEmpty(inclusions(d.blocks)),
		Exclusions:     orEmpty(exclusions(d.blocks)),
		FAQs:           faqs(d.blocks),
		RouteMapImage:  routeMap(d.images),
		PhysicalRating: physicalRating(d.text),
	}
	r.Duration, r.DurationDays = duration(d.title, d.text)
	quickFacts(r, d.lines)
	if r.Itinerary == nil {
		r.Itinerary = []pagemig.ItineraryDay{}
	}
	if r.FAQs == nil {
		r.FAQs = []pagemig.FAQ{}
	}
	return r
}

// ParseSafari recovers a safari package.
func (e *Extractor) ParseSafari(page *pagemig.Page) *pagemig.Safari {
	d := e.load(page)
	html, _ := d.root.Html()
	s := &pagemig.Safari{
		Base:             d.base(),
		SafariType:       safariType(d.title, d.text),
		Overview:         overview(d.blocks, d.root),
		Highlights:       orEmpty(highlights(d.blocks)),
		Itinerary:        itinerary(d.blocks),
		Inclusions:       orEmpty(inclusions(d.blocks)),
		Exclusions:       orEmpty(exclusions(d.blocks)),
		PriceFrom:        price(d.text),
		DestinationSlugs: orEmpty(destinationSlugs(strings.ToLower(html))),
	}
	s.Duration, s.DurationDays = duration(d.title, d.text)
	if s.Itinerary == nil {
		s.Itinerary = []pagemig.ItineraryDay{}
	}
	return s
}

// ParseDestination recovers a national park or reserve.
func (e *Extractor) ParseDestination(page *pagemig.Page) *pagemig.Destination {
	d := e.load(page)
	return &pagemig.Destination{
		Base:        d.base(),
		Name:        d.title,
		Circuit:     circuit(d.title),
		Description: overview(d.blocks, d.root),
		Highlights:  orEmpty(highlights(d.blocks)),
		Wildlife:    orEmpty(wildlife(d.text)),
		BestTime:    bestTime(d.blocks, d.lines),
	}
}

// ParseDayTrip recovers a single-day excursion.
func (e *Extractor) ParseDayTrip(page *pagemig.Page) *pagemig.DayTrip {
	d := e.load(page)
	return &pagemig.DayTrip{
		Base:        d.base(),
		Destination: tripDestination(d.title),
		Description: overview(d.blocks, d.root),
		Highlights:  orEmpty(highlights(d.blocks)),
		Inclusions:  orEmpty(inclusions(d.blocks)),
		Exclusions:  orEmpty(exclusions(d.blocks)),
		PriceFrom:   price(d.text),
	}
}

// routeMap prefers an image labeled as a map, then one labeled as a route.
func routeMap(imgs []image) string {
	for _, keyword := range []string{"map", "route"} {
		for _, img := range imgs {
			if strings.Contains(strings.ToLower(img.URL), keyword) ||
				strings.Contains(strings.ToLower(img.Alt), keyword) {
				return img.URL
			}
		}
	}
	return ""
}

// bestTime reads the paragraph under a "best time" heading, or a
// "best time to visit:" line.
func bestTime(blocks []block, lines []string) string {
	for i, b := range blocks {
		if b.kind != blockHeading || !strings.Contains(strings.ToLower(b.text), "best time") {
			continue
		}
		for _, next := range blocks[i+1:] {
			if next.kind == blockHeading {
				break
			}
			if next.kind == blockParagraph {
				return truncate(next.text, dayDescriptionLen)
			}
		}
	}
	return fact(bestTimeText, strings.Join(lines, "\n"))
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
