package pagemig_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentExtractors(t *testing.T) {
	t.Parallel()

	found := func(html string) *mock.ContentExtractor {
		return &mock.ContentExtractor{
			ExtractContentFn: func(string, string) (*pagemig.ExtractedContent, error) {
				return &pagemig.ExtractedContent{HTML: html}, nil
			},
		}
	}
	failing := func(err error) *mock.ContentExtractor {
		return &mock.ContentExtractor{
			ExtractContentFn: func(string, string) (*pagemig.ExtractedContent, error) {
				return nil, err
			},
		}
	}

	t.Run("returns first successful result", func(t *testing.T) {
		t.Parallel()

		chain := pagemig.ContentExtractors{failing(errors.New("boom")), found("<p>second</p>"), found("<p>third</p>")}

		out, err := chain.ExtractContent("<html></html>", "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<p>second</p>", out.HTML)
	})

	t.Run("skips empty content", func(t *testing.T) {
		t.Parallel()

		chain := pagemig.ContentExtractors{found(""), found("<p>body</p>")}

		out, err := chain.ExtractContent("<html></html>", "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<p>body</p>", out.HTML)
	})

	t.Run("returns last error when all fail", func(t *testing.T) {
		t.Parallel()

		chain := pagemig.ContentExtractors{failing(errors.New("first")), failing(errors.New("last"))}

		_, err := chain.ExtractContent("<html></html>", "https://example.com/")

		require.EqualError(t, err, "last")
	})

	t.Run("empty chain finds nothing", func(t *testing.T) {
		t.Parallel()

		_, err := pagemig.ContentExtractors{}.ExtractContent("<html></html>", "https://example.com/")

		assert.Equal(t, pagemig.ENOTFOUND, pagemig.ErrorCode(err))
	})
}
