package migrate_test

import (
	"testing"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/migrate"
	"github.com/stretchr/testify/assert"
)

func TestNewPreview(t *testing.T) {
	t.Parallel()

	t.Run("route", func(t *testing.T) {
		t.Parallel()

		p := migrate.NewPreview(&pagemig.Route{
			Base:       pagemig.Base{Slug: "machame-route", Title: "7 Days Machame Route", Gallery: []string{"a", "b"}},
			Duration:   "7 Days",
			Highlights: []string{"Lava Tower"},
			Itinerary:  []pagemig.ItineraryDay{{Day: 1}, {Day: 2}, {Day: 3}},
		})

		assert.Equal(t, pagemig.ContentTypeRoute, p.Type)
		assert.Equal(t, "7 Days Machame Route", p.Title)
		assert.Equal(t, []migrate.Field{{Name: "duration", Value: "7 Days"}}, p.Fields)
		assert.Contains(t, p.Counts, migrate.Field{Name: "highlights", Value: "1"})
		assert.Contains(t, p.Counts, migrate.Field{Name: "itinerary days", Value: "3"})
		assert.Contains(t, p.Counts, migrate.Field{Name: "gallery images", Value: "2"})
	})

	t.Run("destination shows circuit", func(t *testing.T) {
		t.Parallel()

		price := 1250
		safari := migrate.NewPreview(&pagemig.Safari{Base: pagemig.Base{Title: "Safari"}, PriceFrom: &price})
		dest := migrate.NewPreview(&pagemig.Destination{Base: pagemig.Base{Title: "Gombe"}, Circuit: pagemig.CircuitUnknown})

		assert.Contains(t, safari.Fields, migrate.Field{Name: "price from", Value: "$1250"})
		assert.Contains(t, dest.Fields, migrate.Field{Name: "circuit", Value: "Unknown"})
	})
}
