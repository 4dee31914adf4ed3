package migrate

import (
	"strconv"

	"github.com/fwojciec/pagemig"
)

// Preview summarizes an extracted record for dry-run output.
type Preview struct {
	Type   pagemig.ContentType
	Slug   string
	Title  string
	Fields []Field
	Counts []Field

	// Markdown is the blog content rendered as Markdown, when a converter
	// is configured.
	Markdown string
}

// Field is a labeled value in a preview.
type Field struct {
	Name  string
	Value string
}

// NewPreview summarizes rec with its key facts and list sizes.
func NewPreview(rec pagemig.Record) *Preview {
	b := rec.Core()
	p := &Preview{Type: rec.Type(), Slug: b.Slug, Title: b.Title}

	switch r := rec.(type) {
	case *pagemig.Route:
		p.field("duration", r.Duration)
		p.field("physical rating", string(r.PhysicalRating))
		p.field("success rate", percent(r.SuccessRate))
		p.count("highlights", len(r.Highlights))
		p.count("itinerary days", len(r.Itinerary))
		p.count("inclusions", len(r.Inclusions))
		p.count("exclusions", len(r.Exclusions))
		p.count("faqs", len(r.FAQs))
	case *pagemig.Safari:
		p.field("duration", r.Duration)
		p.field("type", string(r.SafariType))
		p.field("price from", dollars(r.PriceFrom))
		p.count("highlights", len(r.Highlights))
		p.count("itinerary days", len(r.Itinerary))
		p.count("inclusions", len(r.Inclusions))
		p.count("exclusions", len(r.Exclusions))
		p.count("destinations", len(r.DestinationSlugs))
	case *pagemig.Destination:
		p.field("circuit", string(r.Circuit))
		p.field("best time", r.BestTime)
		p.count("highlights", len(r.Highlights))
		p.count("wildlife", len(r.Wildlife))
	case *pagemig.DayTrip:
		p.field("destination", r.Destination)
		p.field("price from", dollars(r.PriceFrom))
		p.count("highlights", len(r.Highlights))
		p.count("inclusions", len(r.Inclusions))
		p.count("exclusions", len(r.Exclusions))
	case *pagemig.BlogPost:
		if r.PublishedAt != nil {
			p.field("published", r.PublishedAt.Format("2006-01-02"))
		}
		p.count("categories", len(r.CategorySlugs))
		p.count("tags", len(r.TagSlugs))
		p.count("content bytes", len(r.Content))
	}
	p.count("gallery images", len(b.Gallery))
	return p
}

func (p *Preview) field(name, value string) {
	if value != "" {
		p.Fields = append(p.Fields, Field{Name: name, Value: value})
	}
}

func (p *Preview) count(name string, n int) {
	p.Counts = append(p.Counts, Field{Name: name, Value: strconv.Itoa(n)})
}

func dollars(n *int) string {
	if n == nil {
		return ""
	}
	return "$" + strconv.Itoa(*n)
}

func percent(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n) + "%"
}
