package goquery_test

import (
	"testing"

	"github.com/fwojciec/pagemig/goquery"
	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	t.Run("drops tags scripts and styles", func(t *testing.T) {
		t.Parallel()

		got := goquery.StripHTML(`<p>Hello&nbsp;<b>world</b></p><script>track()</script><style>p{color:red}</style><p>Again &amp; again</p>`)

		assert.Equal(t, "Hello world Again & again", got)
	})

	t.Run("separates adjacent blocks", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "One Two", goquery.StripHTML(`<p>One</p><p>Two</p>`))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.StripHTML("   "))
	})
}

func TestDecodeEntities(t *testing.T) {
	t.Parallel()

	got := goquery.DecodeEntities("Rock &amp; Roll &#8211; Live&nbsp;Now &#8217;24 &copy;")

	assert.Equal(t, "Rock & Roll – Live Now ’24 &copy;", got)
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips site suffix", "Machame Route &#8211; 7 Days | Summit Expeditions ", "Machame Route – 7 Days"},
		{"keeps title without suffix", "  Serengeti   National Park ", "Serengeti National Park"},
		{"strips only the last suffix", "A | B | Site", "A | B"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.CleanTitle(tt.in))
		})
	}
}

func TestExtractListItems(t *testing.T) {
	t.Parallel()

	got := goquery.ExtractListItems(`<ul><li> One </li><li></li><li>Two &amp; three</li></ul>`)

	assert.Equal(t, []string{"One", "Two & three"}, got)
}

func TestExtractMetaDescription(t *testing.T) {
	t.Parallel()

	t.Run("prefers meta description", func(t *testing.T) {
		t.Parallel()

		html := `<head><meta property="og:description" content="OG"><meta name="description" content="Plain &amp; simple"></head>`
		assert.Equal(t, "Plain & simple", goquery.ExtractMetaDescription(html))
	})

	t.Run("falls back to og description", func(t *testing.T) {
		t.Parallel()

		html := `<head><meta property="og:description" content="From OG"></head>`
		assert.Equal(t, "From OG", goquery.ExtractMetaDescription(html))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.ExtractMetaDescription(`<p>no meta</p>`))
	})
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Machame | Site", goquery.ExtractTitle(`<head><title> Machame | Site </title></head><h1>Other</h1>`))
	assert.Equal(t, "Heading", goquery.ExtractTitle(`<body><h1>Heading</h1></body>`))
}

func TestExtractImages(t *testing.T) {
	t.Parallel()

	html := `
<img src="https://example.com/wp-content/uploads/2023/01/summit-1024x683.jpg">
<img src="https://www.example.com/wp-content/uploads/2023/01/summit.jpg?ver=2">
<img src="https://cdn.elsewhere.com/banner.jpg">
<img src="https://example.com/wp-content/uploads/2023/01/avatar-150x150.jpg">
<img src="data:image/gif;base64,R0lGODlhAQABAAAAACw=" data-lazy-src="https://example.com/wp-content/uploads/2023/01/camp-scaled.jpg">
<img src="https://example.com/wp-content/plugins/lazy/placeholder.png">
<img src="/wp-content/uploads/2023/01/gate.jpg">
<img>`

	got := goquery.ExtractImages(html, "example.com")

	assert.Equal(t, []string{
		"https://example.com/wp-content/uploads/2023/01/summit.jpg",
		"https://example.com/wp-content/uploads/2023/01/camp.jpg",
		"https://example.com/wp-content/uploads/2023/01/gate.jpg",
	}, got)
}
