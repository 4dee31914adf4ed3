package goquery

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemig"
)

// Extraction limits.
const (
	minParagraphLength   = 50
	overviewParagraphs   = 3
	overviewFallbackLen  = 500
	dayDescriptionLen    = 500
	maxHighlightLength   = 200
	accordionHeadingRank = 4
)

// noise is removed before outlining: site chrome repeats on every page.
const noise = `script, style, noscript, template, form, header, nav, footer,
	[data-elementor-type="header"], [data-elementor-type="footer"], .site-header, .site-footer`

// Page-builder accordions and native disclosure widgets carry titles that
// act as headings.
const (
	headingSelector   = "h1, h2, h3, h4, h5, h6, .elementor-tab-title, .elementor-toggle-title, summary"
	paragraphSelector = "p, .elementor-tab-content"
	outlineSelector   = headingSelector + ", " + paragraphSelector + ", ul, ol"
)

type blockKind int

const (
	blockHeading blockKind = iota
	blockParagraph
	blockList
)

// block is one heading, paragraph or list of a page, in document order.
type block struct {
	kind  blockKind
	level int
	text  string
	sel   *goquery.Selection
}

// contentRoot returns a copy of the body with site chrome removed.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	root := body.Clone()
	root.Find(noise).Remove()
	return root
}

// outline flattens root into the sequence of blocks the heuristics walk.
// Lists nested in lists and paragraphs nested in headings are part of their
// enclosing block.
func outline(root *goquery.Selection) []block {
	var blocks []block
	root.Find(outlineSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("li").Length() > 0 {
			return
		}
		switch {
		case s.Is("ul, ol"):
			blocks = append(blocks, block{kind: blockList, sel: s})
		case s.Is(headingSelector):
			if s.ParentsFiltered(headingSelector).Length() > 0 {
				return
			}
			if t := selectionText(s); t != "" {
				blocks = append(blocks, block{kind: blockHeading, level: headingLevel(s), text: t, sel: s})
			}
		default:
			if s.ParentsFiltered(headingSelector).Length() > 0 {
				return
			}
			// Accordion bodies only count when they hold bare text.
			if s.Is(".elementor-tab-content") && s.Find("p, ul, ol").Length() > 0 {
				return
			}
			if t := selectionText(s); t != "" {
				blocks = append(blocks, block{kind: blockParagraph, text: t, sel: s})
			}
		}
	})
	return blocks
}

func headingLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return accordionHeadingRank
}

// keywordMatcher reports whether a lowercased heading matches.
type keywordMatcher func(lower string) bool

func containsAny(keywords ...string) keywordMatcher {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

var (
	isHighlightHeading = containsAny("highlight", "feature", "why choose")
	isExclusionHeading = containsAny("exclud", "not included")
	isFAQHeading       = containsAny("faq", "frequently asked")
)

func isInclusionHeading(lower string) bool {
	return strings.Contains(lower, "includ") && !isExclusionHeading(lower)
}

// sectionList returns the items of the first list that follows a matching
// heading before any other heading does.
func sectionList(blocks []block, match keywordMatcher) []string {
	for i, b := range blocks {
		if b.kind != blockHeading || !match(strings.ToLower(b.text)) {
			continue
		}
		for _, next := range blocks[i+1:] {
			if next.kind == blockHeading {
				break
			}
			if next.kind != blockList {
				continue
			}
			if items := childItems(next.sel); len(items) > 0 {
				return items
			}
		}
	}
	return nil
}

func highlights(blocks []block) []string {
	var out []string
	for _, item := range sectionList(blocks, isHighlightHeading) {
		if utf8.RuneCountInString(item) > maxHighlightLength {
			continue
		}
		out = append(out, item)
	}
	return capList(out, pagemig.MaxHighlights)
}

func inclusions(blocks []block) []string {
	return capList(sectionList(blocks, isInclusionHeading), pagemig.MaxListItems)
}

func exclusions(blocks []block) []string {
	return capList(sectionList(blocks, isExclusionHeading), pagemig.MaxListItems)
}

// overview joins the first substantial paragraphs, or falls back to the
// start of the page text.
func overview(blocks []block, root *goquery.Selection) string {
	var paras []string
	for _, b := range blocks {
		if b.kind == blockParagraph && utf8.RuneCountInString(b.text) > minParagraphLength {
			paras = append(paras, b.text)
			if len(paras) == overviewParagraphs {
				break
			}
		}
	}
	if len(paras) > 0 {
		return strings.Join(paras, "\n\n")
	}
	return truncate(selectionText(root), overviewFallbackLen)
}

var (
	dayPattern = regexp.MustCompile(`(?i)\bday\s*(\d{1,2})\b`)
	// detailLabel matches the labels of itinerary day details. Longer labels
	// come first so "hiking time" wins over "time".
	detailLabel = regexp.MustCompile(`(?i)\b(elevation|altitude|distance|hiking time|walking time|trekking time|driving time|time|meals?)\s*:\s*`)
)

// itinerary collects "Day N" sections, sorted and numbered from 1.
func itinerary(blocks []block) []pagemig.ItineraryDay {
	var days []pagemig.ItineraryDay
	seen := make(map[int]bool)

	for i, b := range blocks {
		if b.kind != blockHeading {
			continue
		}
		// Questions such as "What do we eat on day 2?" belong to FAQs.
		if strings.Contains(b.text, "?") {
			continue
		}
		loc := dayPattern.FindStringSubmatchIndex(b.text)
		if loc == nil {
			continue
		}
		n := atoi(b.text[loc[2]:loc[3]])
		if n == 0 || seen[n] {
			continue
		}
		seen[n] = true

		day := pagemig.ItineraryDay{
			Day:   n,
			Title: dayTitle(b.text, loc[0], loc[1]),
		}
		var desc []string
		length := 0
		for _, next := range blocks[i+1:] {
			if next.kind == blockHeading {
				break
			}
			lines := []string{next.text}
			if next.kind == blockList {
				lines = listItems(next.sel)
			}
			for _, line := range lines {
				if applyDayDetails(&day, line) {
					continue
				}
				if next.kind == blockParagraph && length < dayDescriptionLen {
					desc = append(desc, line)
					length += utf8.RuneCountInString(line) + 1
				}
			}
		}
		day.Description = truncate(strings.Join(desc, " "), dayDescriptionLen)
		days = append(days, day)
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	if len(days) > pagemig.MaxDays {
		days = days[:pagemig.MaxDays]
	}
	for i := range days {
		days[i].Day = i + 1
	}
	return days
}

func dayTitle(text string, start, end int) string {
	title := strings.TrimSpace(text[:start]) + " " + strings.TrimSpace(text[end:])
	title = strings.Trim(title, " :.-–—|")
	if title == "" {
		return strings.TrimSpace(text[start:end])
	}
	return title
}

// applyDayDetails records every labeled detail in line and reports whether
// the line starts with a label, meaning it is a detail line and not prose.
func applyDayDetails(day *pagemig.ItineraryDay, line string) bool {
	locs := detailLabel.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return false
	}
	for i, loc := range locs {
		end := len(line)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := strings.Trim(line[loc[1]:end], " |,;•")
		if value == "" {
			continue
		}
		switch label := strings.ToLower(line[loc[2]:loc[3]]); {
		case label == "elevation" || label == "altitude":
			setOnce(&day.Elevation, value)
		case label == "distance":
			setOnce(&day.Distance, value)
		case strings.HasPrefix(label, "meal"):
			setOnce(&day.Meals, value)
		default:
			setOnce(&day.Time, value)
		}
	}
	return locs[0][0] == 0
}

func setOnce(field *string, value string) {
	if *field == "" {
		*field = strings.TrimRight(value, ".")
	}
}

// faqs collects question headings under a FAQ heading, each answered by the
// first paragraph that follows it.
func faqs(blocks []block) []pagemig.FAQ {
	start := -1
	level := 0
	for i, b := range blocks {
		if b.kind == blockHeading && isFAQHeading(strings.ToLower(b.text)) && !strings.Contains(b.text, "?") {
			start, level = i, b.level
			break
		}
	}
	if start < 0 {
		return nil
	}

	var out []pagemig.FAQ
	seen := make(map[string]bool)
	question := ""
	for _, b := range blocks[start+1:] {
		switch b.kind {
		case blockHeading:
			switch {
			case strings.Contains(b.text, "?"):
				question = b.text
			case b.level <= level:
				return out
			default:
				question = ""
			}
		case blockParagraph:
			if question == "" || seen[question] {
				continue
			}
			seen[question] = true
			out = append(out, pagemig.FAQ{Question: question, Answer: b.text})
			question = ""
			if len(out) == pagemig.MaxFAQs {
				return out
			}
		}
	}
	return out
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
