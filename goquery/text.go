// Package goquery recovers structured travel records from page-builder HTML
// using goquery selections and ordered, independent heuristics.
//
// Nothing in this package returns an error for malformed markup. Every
// heuristic degrades to an empty value and the record is still produced.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// entityReplacer decodes the entities the source CMS is known to emit.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&#160;", " ",
	"&amp;", "&",
	"&#038;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#039;", "'",
	"&#39;", "'",
	"&#8216;", "‘",
	"&#8217;", "’",
	"&#8220;", "“",
	"&#8221;", "”",
	"&#8211;", "–",
	"&#8212;", "—",
	"&#8230;", "…",
	"\u00a0", " ",
)

// DecodeEntities decodes the fixed set of HTML entities found in source
// titles and API strings. Entities outside the set are left as is.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// StripHTML reduces an HTML fragment to plain text. Script and style
// content is dropped, entities are decoded and whitespace is collapsed.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseSpace(DecodeEntities(s))
	}
	return collapseSpace(DecodeEntities(nodeText(doc)))
}

// CleanTitle decodes entities, drops a trailing " | Site Name" suffix and
// trims whitespace.
func CleanTitle(s string) string {
	s = collapseSpace(DecodeEntities(s))
	if i := strings.LastIndex(s, " | "); i > 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

var skipTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Br: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// nodeText returns the text under n with a newline at every block boundary
// so that adjacent blocks never run together.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if skipTags[n.DataAtom] {
				return
			}
		}
		block := n.Type == html.ElementNode && blockTags[n.DataAtom]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(n)
	return b.String()
}

// selectionText returns the collapsed text of every node in sel.
func selectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		if t := collapseSpace(DecodeEntities(nodeText(n))); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// selectionLines returns the non-empty text lines under sel, one per block.
func selectionLines(sel *goquery.Selection) []string {
	var lines []string
	for _, n := range sel.Nodes {
		for _, line := range strings.Split(nodeText(n), "\n") {
			if line = collapseSpace(DecodeEntities(line)); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n runes, backing off to a word boundary.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
