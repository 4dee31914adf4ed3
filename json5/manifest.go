// Package json5 loads migration manifests written in JSON5.
package json5

import (
	"fmt"
	"io"

	"github.com/fwojciec/pagemig"
	"github.com/titanous/json5"
)

// entry is one page as written in a manifest file.
type entry struct {
	Slug string `json:"slug"`
	Path string `json:"path"`
}

// file is the on-disk manifest shape: one list of entries per content type.
type file struct {
	Routes       []entry `json:"routes"`
	Safaris      []entry `json:"safaris"`
	Destinations []entry `json:"destinations"`
	DayTrips     []entry `json:"daytrips"`
	Blog         []entry `json:"blog"`
}

func (f *file) entries(t pagemig.ContentType) []entry {
	switch t {
	case pagemig.ContentTypeRoute:
		return f.Routes
	case pagemig.ContentTypeSafari:
		return f.Safaris
	case pagemig.ContentTypeDestination:
		return f.Destinations
	case pagemig.ContentTypeDayTrip:
		return f.DayTrips
	case pagemig.ContentTypeBlog:
		return f.Blog
	}
	return nil
}

// LoadManifest parses a JSON5 manifest and returns its items flattened in
// content type order, preserving the order within each list.
// The result is validated; any malformed item is an EINVALID error.
func LoadManifest(r io.Reader) (pagemig.Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var f file
	if err := json5.Unmarshal(data, &f); err != nil {
		return nil, pagemig.Errorf(pagemig.EINVALID, "parse manifest: %v", err)
	}

	var m pagemig.Manifest
	for _, t := range pagemig.ContentTypes() {
		for _, e := range f.entries(t) {
			m = append(m, pagemig.ManifestItem{Slug: e.Slug, Path: e.Path, Type: t})
		}
	}

	if len(m) == 0 {
		return nil, pagemig.Errorf(pagemig.EINVALID, "manifest has no items")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
