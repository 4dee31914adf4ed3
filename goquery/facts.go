package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/pagemig"
)

// MultipleDays is the duration recorded when no day count can be found.
const MultipleDays = "Multiple Days"

var (
	titleDuration = regexp.MustCompile(`(?i)(\d+)[\s-]*days?\b`)
	bodyDuration  = regexp.MustCompile(`(?i)duration\s*:\s*(\d+)\s*days?\b`)
	pricePattern  = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+|\d+)`)
	groupSize     = regexp.MustCompile(`(?i)(?:group size|max(?:imum)?\.?\s+(?:group|people|persons|participants))\s*:?\s*(?:up to\s*)?(\d+)`)
	successRate   = regexp.MustCompile(`(?i)success rate\s*:?\s*(\d{1,3})\s*%`)
	startPoint    = regexp.MustCompile(`(?i)\bstart(?:ing)?\s+point\s*:\s*([^\n]+)`)
	endPoint      = regexp.MustCompile(`(?i)\bend(?:ing)?\s+point\s*:\s*([^\n]+)`)
	ageRange      = regexp.MustCompile(`(?i)\bage(?:\s+range|\s+limit|\s+requirement)?\s*:\s*([^\n]+)`)
	bestTimeText  = regexp.MustCompile(`(?i)best time to (?:visit|go|climb)\s*(?:is)?\s*:\s*([^\n]+)`)
)

// maxFactLength rejects captures that ran into unrelated text.
const maxFactLength = 80

// duration parses a day count from the title, then from a "Duration:" label
// in the body. It never fails.
func duration(title, body string) (string, int) {
	m := titleDuration.FindStringSubmatch(title)
	if m == nil {
		m = bodyDuration.FindStringSubmatch(body)
	}
	if m == nil {
		return MultipleDays, 1
	}
	n := atoi(m[1])
	if n <= 0 {
		return MultipleDays, 1
	}
	if n == 1 {
		return "1 Day", 1
	}
	return fmt.Sprintf("%d Days", n), n
}

// price returns the first dollar amount in text.
func price(text string) *int {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// quickFacts fills the route info-box fields found in lines.
func quickFacts(r *pagemig.Route, lines []string) {
	text := strings.Join(lines, "\n")
	if m := groupSize.FindStringSubmatch(text); m != nil {
		if n := atoi(m[1]); n > 0 {
			r.MaxPeople = &n
		}
	}
	if m := successRate.FindStringSubmatch(text); m != nil {
		if n := atoi(m[1]); n > 0 && n <= 100 {
			r.SuccessRate = &n
		}
	}
	r.StartPoint = fact(startPoint, text)
	r.EndPoint = fact(endPoint, text)
	r.AgeRange = fact(ageRange, text)
}

func fact(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	v := strings.Trim(m[1], " .,;|")
	if v == "" || len(v) > maxFactLength {
		return ""
	}
	return v
}

// physicalRating picks the hardest difficulty keyword present in text.
func physicalRating(text string) pagemig.PhysicalRating {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "challenging"):
		return pagemig.RatingChallenging
	case strings.Contains(lower, "difficult"):
		return pagemig.RatingDifficult
	case strings.Contains(lower, "moderate"):
		return pagemig.RatingModerate
	}
	return ""
}

// Park names by circuit, lowercased.
var circuits = []struct {
	circuit pagemig.Circuit
	parks   []string
}{
	{pagemig.CircuitNorthern, []string{
		"serengeti", "ngorongoro", "tarangire", "lake manyara", "manyara",
		"arusha", "kilimanjaro", "lake natron", "natron", "lake eyasi",
		"eyasi", "mkomazi", "olduvai",
	}},
	{pagemig.CircuitSouthern, []string{
		"ruaha", "selous", "nyerere", "mikumi", "udzungwa", "saadani",
	}},
	{pagemig.CircuitWestern, []string{
		"gombe", "mahale", "katavi", "rubondo", "burigi",
	}},
}

var parkSuffix = regexp.MustCompile(`(?i)\s+(?:national park|conservation area|game reserve|marine park|reserve|park|safaris?)\s*$`)

// parkName strips the protected-area suffix from a destination title.
func parkName(title string) string {
	name := strings.TrimSpace(title)
	for {
		stripped := strings.TrimSpace(parkSuffix.ReplaceAllString(name, ""))
		if stripped == name || stripped == "" {
			return name
		}
		name = stripped
	}
}

// circuit classifies a park by name. Names on no list are Unknown.
func circuit(name string) pagemig.Circuit {
	lower := strings.ToLower(parkName(name))
	if lower == "" {
		return pagemig.CircuitUnknown
	}
	for _, c := range circuits {
		for _, park := range c.parks {
			if strings.Contains(lower, park) {
				return c.circuit
			}
		}
	}
	return pagemig.CircuitUnknown
}

var species = []string{
	"lion", "elephant", "buffalo", "leopard", "rhino", "cheetah",
	"giraffe", "zebra", "hippo", "wildebeest", "crocodile", "flamingo",
}

var speciesPatterns = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(species))
	for i, s := range species {
		res[i] = regexp.MustCompile(`\b` + s)
	}
	return res
}()

// wildlife returns the vocabulary species mentioned in text, title-cased,
// in vocabulary order.
func wildlife(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for i, re := range speciesPatterns {
		if re.MatchString(lower) {
			out = append(out, strings.ToUpper(species[i][:1])+species[i][1:])
		}
	}
	return out
}

// safariType infers the price tier. Luxury anywhere wins; budget wording
// only counts in the title.
func safariType(title, body string) pagemig.SafariType {
	lt, lb := strings.ToLower(title), strings.ToLower(body)
	switch {
	case strings.Contains(lt, "luxury") || strings.Contains(lb, "luxury"):
		return pagemig.SafariLuxury
	case strings.Contains(lt, "budget") || strings.Contains(lt, "camping"):
		return pagemig.SafariBudget
	}
	return pagemig.SafariMidRange
}

// Known park fragments and the slugs they reference.
var destinationFragments = []struct {
	fragment string
	slug     string
}{
	{"serengeti", "serengeti"},
	{"ngorongoro", "ngorongoro"},
	{"tarangire", "tarangire"},
	{"lake manyara", "lake-manyara"},
	{"arusha national park", "arusha"},
	{"ruaha", "ruaha"},
	{"nyerere", "nyerere"},
	{"selous", "nyerere"},
	{"mikumi", "mikumi"},
	{"katavi", "katavi"},
	{"gombe", "gombe"},
	{"mahale", "mahale"},
}

// DestinationSuffix completes a park fragment into a destination slug.
const DestinationSuffix = "-national-park"

// destinationSlugs lists the parks mentioned in lowercased content,
// deduplicated in fragment order.
func destinationSlugs(lower string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range destinationFragments {
		slug := d.slug + DestinationSuffix
		if seen[slug] || !strings.Contains(lower, d.fragment) {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}

var tripSuffix = regexp.MustCompile(`(?i)\s*[-–:|]?\s*\b(?:(?:full|half)[- ]day\s+)?(?:day[- ]trips?|day[- ]tours?|tours?|excursions?)\b.*$`)

// tripDestination derives a day trip's destination from its title.
func tripDestination(title string) string {
	if d := strings.TrimSpace(tripSuffix.ReplaceAllString(title, "")); d != "" {
		return d
	}
	return title
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
