package pagemig

// ManifestItem names one source page to migrate.
type ManifestItem struct {
	Slug string      `json:"slug"`
	Path string      `json:"path"`
	Type ContentType `json:"type"`
}

// Manifest is the ordered list of pages to migrate.
type Manifest []ManifestItem

// Validate returns an error for the first item with a missing slug or path
// or an unknown content type.
func (m Manifest) Validate() error {
	for i, item := range m {
		if item.Slug == "" {
			return Errorf(EINVALID, "manifest item %d: slug required", i)
		}
		if item.Path == "" {
			return Errorf(EINVALID, "manifest item %d (%s): path required", i, item.Slug)
		}
		if _, err := ParseContentType(string(item.Type)); err != nil {
			return Errorf(EINVALID, "manifest item %d (%s): unknown content type %q", i, item.Slug, item.Type)
		}
	}
	return nil
}

// Filter returns the items of type t in manifest order.
// An empty t returns the whole manifest.
func (m Manifest) Filter(t ContentType) Manifest {
	if t == "" {
		return m
	}
	var out Manifest
	for _, item := range m {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// Paths returns the set of paths named by the manifest.
func (m Manifest) Paths() map[string]bool {
	paths := make(map[string]bool, len(m))
	for _, item := range m {
		paths[item.Path] = true
	}
	return paths
}
