package pagemig

import (
	"net/url"
	"strings"
)

// Page is one fetched source document, the input of the extraction layer.
type Page struct {
	Slug            string
	URL             string
	HTML            string
	Title           string
	MetaDescription string
}

// ResolveURL joins a manifest path onto the source base URL.
// Absolute paths are returned unchanged.
func ResolveURL(baseURL, path string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", Errorf(EINVALID, "invalid source URL %q", baseURL)
	}
	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return "", Errorf(EINVALID, "invalid path %q", path)
	}
	return base.ResolveReference(ref).String(), nil
}
