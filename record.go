package pagemig

import (
	"context"
	"time"
)

// ContentType identifies one of the migrated record kinds.
type ContentType string

// Supported content types, in the order the manifest lists them.
const (
	ContentTypeRoute       ContentType = "routes"
	ContentTypeSafari      ContentType = "safaris"
	ContentTypeDestination ContentType = "destinations"
	ContentTypeDayTrip     ContentType = "daytrips"
	ContentTypeBlog        ContentType = "blog"
)

// ContentTypes returns all content types in manifest order.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentTypeRoute,
		ContentTypeSafari,
		ContentTypeDestination,
		ContentTypeDayTrip,
		ContentTypeBlog,
	}
}

// ParseContentType validates s as a content type name.
func ParseContentType(s string) (ContentType, error) {
	for _, t := range ContentTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", Errorf(EINVALID, "unknown content type %q", s)
}

// List caps applied by the extraction layer.
const (
	MaxHighlights = 10
	MaxListItems  = 10
	MaxFAQs       = 10
	MaxDays       = 30
)

// Base holds the fields shared by every record.
type Base struct {
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	FeaturedImage   string   `json:"featuredImage,omitempty"`
	Gallery         []string `json:"gallery"`
}

// Core returns the shared fields. It is promoted to every record type.
func (b *Base) Core() *Base { return b }

func (b *Base) validate() error {
	if b.Slug == "" {
		return Errorf(EINVALID, "record slug required")
	}
	if b.Title == "" {
		return Errorf(EINVALID, "record %q title required", b.Slug)
	}
	return nil
}

// Record is implemented by the five migrated record types.
type Record interface {
	Core() *Base
	Type() ContentType
	Validate() error
}

// ItineraryDay is one day of a multi-day itinerary.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Elevation   string `json:"elevation,omitempty"`
	Distance    string `json:"distance,omitempty"`
	Time        string `json:"time,omitempty"`
	Meals       string `json:"meals,omitempty"`
}

// FAQ is a question with its answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PhysicalRating is a coarse route difficulty label.
type PhysicalRating string

// Physical ratings, in ascending difficulty.
const (
	RatingModerate    PhysicalRating = "Moderate"
	RatingDifficult   PhysicalRating = "Difficult"
	RatingChallenging PhysicalRating = "Challenging"
)

// SafariType is the price tier of a safari package.
type SafariType string

// Safari price tiers.
const (
	SafariBudget   SafariType = "Budget"
	SafariMidRange SafariType = "Mid-range"
	SafariLuxury   SafariType = "Luxury"
)

// Circuit is the geographic grouping of a destination.
type Circuit string

// Destination circuits. CircuitUnknown marks a park that matched none of
// the known name lists and needs a human decision.
const (
	CircuitNorthern Circuit = "Northern"
	CircuitSouthern Circuit = "Southern"
	CircuitWestern  Circuit = "Western"
	CircuitUnknown  Circuit = "Unknown"
)

// Route is a trekking route.
type Route struct {
	Base
	Duration       string         `json:"duration"`
	DurationDays   int            `json:"durationDays"`
	Overview       string         `json:"overview"`
	Highlights     []string       `json:"highlights"`
	Itinerary      []ItineraryDay `json:"itinerary"`
	Inclusions     []string       `json:"inclusions"`
	Exclusions     []string       `json:"exclusions"`
	FAQs           []FAQ          `json:"faqs"`
	RouteMapImage  string         `json:"routeMapImage,omitempty"`
	MaxPeople      *int           `json:"maxPeople,omitempty"`
	StartPoint     string         `json:"startPoint,omitempty"`
	EndPoint       string         `json:"endPoint,omitempty"`
	AgeRange       string         `json:"ageRange,omitempty"`
	PhysicalRating PhysicalRating `json:"physicalRating,omitempty"`
	SuccessRate    *int           `json:"successRate,omitempty"`
}

// Type implements Record.
func (r *Route) Type() ContentType { return ContentTypeRoute }

// Validate returns an error if the route contains invalid fields.
func (r *Route) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	return validateItinerary(r.Slug, r.Itinerary)
}

// Safari is a safari package.
type Safari struct {
	Base
	Duration         string         `json:"duration"`
	DurationDays     int            `json:"durationDays"`
	SafariType       SafariType     `json:"type"`
	Overview         string         `json:"overview"`
	Highlights       []string       `json:"highlights"`
	Itinerary        []ItineraryDay `json:"itinerary"`
	Inclusions       []string       `json:"inclusions"`
	Exclusions       []string       `json:"exclusions"`
	PriceFrom        *int           `json:"priceFrom,omitempty"`
	DestinationSlugs []string       `json:"destinationSlugs"`
}

// Type implements Record.
func (s *Safari) Type() ContentType { return ContentTypeSafari }

// Validate returns an error if the safari contains invalid fields.
func (s *Safari) Validate() error {
	if err := s.validate(); err != nil {
		return err
	}
	return validateItinerary(s.Slug, s.Itinerary)
}

// Destination is a national park or reserve.
type Destination struct {
	Base
	Name        string   `json:"name"`
	Circuit     Circuit  `json:"circuit"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Wildlife    []string `json:"wildlife"`
	BestTime    string   `json:"bestTime,omitempty"`
}

// Type implements Record.
func (d *Destination) Type() ContentType { return ContentTypeDestination }

// Validate returns an error if the destination contains invalid fields.
func (d *Destination) Validate() error {
	return d.validate()
}

// DayTrip is a single-day excursion.
type DayTrip struct {
	Base
	Destination string   `json:"destination"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Inclusions  []string `json:"inclusions"`
	Exclusions  []string `json:"exclusions"`
	PriceFrom   *int     `json:"priceFrom,omitempty"`
}

// Type implements Record.
func (d *DayTrip) Type() ContentType { return ContentTypeDayTrip }

// Validate returns an error if the day trip contains invalid fields.
func (d *DayTrip) Validate() error {
	return d.validate()
}

// BlogPost is a blog article. Content is a cleaned HTML fragment.
type BlogPost struct {
	Base
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CategorySlugs []string   `json:"categorySlugs"`
	TagSlugs      []string   `json:"tagSlugs"`
}

// Type implements Record.
func (b *BlogPost) Type() ContentType { return ContentTypeBlog }

// Validate returns an error if the blog post contains invalid fields.
func (b *BlogPost) Validate() error {
	return b.validate()
}

func validateItinerary(slug string, days []ItineraryDay) error {
	for i, d := range days {
		if d.Day != i+1 {
			return Errorf(EINVALID, "record %q itinerary day %d out of sequence", slug, d.Day)
		}
	}
	return nil
}

// NewRecord returns an empty record of the given type, suitable for decoding.
func NewRecord(t ContentType) (Record, error) {
	switch t {
	case ContentTypeRoute:
		return &Route{}, nil
	case ContentTypeSafari:
		return &Safari{}, nil
	case ContentTypeDestination:
		return &Destination{}, nil
	case ContentTypeDayTrip:
		return &DayTrip{}, nil
	case ContentTypeBlog:
		return &BlogPost{}, nil
	}
	return nil, Errorf(EINVALID, "unknown content type %q", t)
}

// Outcome is the result of migrating one manifest item.
type Outcome string

// Migration outcomes.
const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFailed    Outcome = "failed"
	OutcomePreviewed Outcome = "previewed"
)

// RecordService persists records keyed by content type and slug.
//
// Writes replace every field of an existing record. A field absent from the
// new record is cleared, never left stale.
type RecordService interface {
	// UpsertRecord creates the record or replaces the existing one with the
	// same slug. Returns OutcomeCreated, OutcomeUpdated, or OutcomeUnchanged
	// when the stored fields were already identical.
	UpsertRecord(ctx context.Context, rec Record) (Outcome, error)

	// UpdateRecord replaces an existing record and never creates one.
	// Returns ENOTFOUND if no record has the slug.
	UpdateRecord(ctx context.Context, rec Record) (Outcome, error)

	// FindRecord retrieves a record by type and slug.
	// Returns ENOTFOUND if the record does not exist.
	FindRecord(ctx context.Context, t ContentType, slug string) (Record, error)

	// CountRecords returns the number of stored records of a type.
	CountRecords(ctx context.Context, t ContentType) (int, error)
}
