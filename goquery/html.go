package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parse builds a document from raw HTML. The HTML parser recovers from any
// malformed input, so a read error can only come from the reader; an empty
// document is returned in that case.
func parse(rawHTML string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

// ExtractListItems returns the text of every list item in an HTML fragment.
func ExtractListItems(rawHTML string) []string {
	return listItems(parse(rawHTML).Selection)
}

func listItems(sel *goquery.Selection) []string {
	var items []string
	sel.Find("li").Each(func(_ int, li *goquery.Selection) {
		if t := selectionText(li); t != "" {
			items = append(items, t)
		}
	})
	return items
}

// childItems returns the text of the direct <li> children of a list.
// Nested lists stay part of their parent item's text.
func childItems(list *goquery.Selection) []string {
	var items []string
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if t := selectionText(li); t != "" {
			items = append(items, t)
		}
	})
	return items
}

// ExtractMetaDescription returns the page's meta description, falling back
// to its Open Graph description.
func ExtractMetaDescription(rawHTML string) string {
	return metaDescription(parse(rawHTML))
}

func metaDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if v := metaContent(doc, sel); v != "" {
			return v
		}
	}
	return ""
}

// ExtractTitle returns the document title, falling back to the first h1.
func ExtractTitle(rawHTML string) string {
	return title(parse(rawHTML))
}

func title(doc *goquery.Document) string {
	if t := collapseSpace(DecodeEntities(doc.Find("title").First().Text())); t != "" {
		return t
	}
	return selectionText(doc.Find("h1").First())
}

func metaTitle(doc *goquery.Document) string {
	return metaContent(doc, `meta[property="og:title"]`)
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return collapseSpace(DecodeEntities(v))
}

// lazyAttrs are checked before src because lazy-loading plugins leave a
// placeholder in src.
var lazyAttrs = []string{"data-lazy-src", "data-src", "data-original", "src"}

var (
	resizeSuffix = regexp.MustCompile(`-(\d+)x(\d+)(?:px)?(\.[A-Za-z0-9]+)$`)
	scaledSuffix = regexp.MustCompile(`-(?:scaled|e\d{10,})(\.[A-Za-z0-9]+)$`)
)

// maxThumbnailSide is the largest square variant treated as a thumbnail.
const maxThumbnailSide = 300

type image struct {
	URL string
	Alt string
}

// ExtractImages returns the full-size image URLs of an HTML fragment in
// document order. Only images served from mediaHost are kept; an empty
// mediaHost keeps every host. Placeholders and square thumbnails are
// dropped and resized variants collapse onto their original file.
func ExtractImages(rawHTML, mediaHost string) []string {
	var urls []string
	for _, img := range images(parse(rawHTML).Selection, mediaHost) {
		urls = append(urls, img.URL)
	}
	return urls
}

func images(sel *goquery.Selection, mediaHost string) []image {
	host := normalizeHost(mediaHost)
	seen := make(map[string]bool)
	var out []image
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		u, ok := imageURL(img, host)
		key := strings.Replace(u, "://www.", "://", 1)
		if !ok || seen[key] {
			return
		}
		seen[key] = true
		alt, _ := img.Attr("alt")
		out = append(out, image{URL: u, Alt: collapseSpace(DecodeEntities(alt))})
	})
	return out
}

// imageURL resolves the usable source of an img element.
func imageURL(img *goquery.Selection, host string) (string, bool) {
	for _, attr := range lazyAttrs {
		raw, _ := img.Attr(attr)
		raw = strings.TrimSpace(raw)
		if raw == "" || isPlaceholder(raw) {
			continue
		}
		return normalizeImage(raw, host)
	}
	return "", false
}

func normalizeImage(raw, host string) (string, bool) {
	switch {
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case strings.HasPrefix(raw, "/"):
		if host == "" {
			return "", false
		}
		raw = "https://" + host + raw
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	if host != "" && normalizeHost(u.Host) != host {
		return "", false
	}

	if m := resizeSuffix.FindStringSubmatch(u.Path); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		if w == h && w <= maxThumbnailSide {
			return "", false
		}
		u.Path = strings.TrimSuffix(u.Path, m[0]) + m[3]
	}
	if m := scaledSuffix.FindStringSubmatch(u.Path); m != nil {
		u.Path = strings.TrimSuffix(u.Path, m[0]) + m[1]
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), true
}

func isPlaceholder(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "data:") {
		return true
	}
	base := path.Base(strings.SplitN(lower, "?", 2)[0])
	return strings.Contains(base, "placeholder") ||
		strings.HasSuffix(base, ".svg") ||
		base == "blank.gif" ||
		base == "spacer.gif"
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimPrefix(h, "www.")
}
