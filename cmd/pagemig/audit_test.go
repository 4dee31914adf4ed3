package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/pagemig"
	main "github.com/fwojciec/pagemig/cmd/pagemig"
	"github.com/fwojciec/pagemig/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditCmd_Run(t *testing.T) {
	t.Parallel()

	manifest := pagemig.Manifest{
		{Slug: "machame-route", Path: "/7-days-machame-route/", Type: pagemig.ContentTypeRoute},
		{Slug: "serengeti-national-park", Path: "/serengeti-national-park", Type: pagemig.ContentTypeDestination},
		{Slug: "retired", Path: "/retired-page/", Type: pagemig.ContentTypeDayTrip},
	}

	t.Run("lists sitemap URLs missing from manifest", func(t *testing.T) {
		t.Parallel()

		var gotBase string
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			SourceURL: "https://example.com",
			Manifest:  manifest,
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, baseURL string) ([]string, error) {
					gotBase = baseURL
					return []string{
						"https://example.com/7-days-machame-route",
						"https://example.com/serengeti-national-park/",
						"https://example.com/zanzibar-beach-holiday/",
						"https://example.com/zanzibar-beach-holiday",
						"https://cdn.example.net/other/",
					}, nil
				},
			},
		}

		err := (&main.AuditCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", gotBase)
		out := stdout.String()
		assert.Contains(t, out, "Sitemap URLs not in manifest: 1\n  https://example.com/zanzibar-beach-holiday/\n")
		assert.NotContains(t, out, "cdn.example.net")
		assert.Contains(t, out, "Manifest paths not in sitemap: 1\n  /retired-page/\n")
	})

	t.Run("returns discovery error", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			SourceURL: "https://example.com",
			Manifest:  manifest,
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string) ([]string, error) {
					return nil, errors.New("sitemap unavailable")
				},
			},
		}

		err := (&main.AuditCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "sitemap unavailable")
	})

	t.Run("rejects source without host", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			SourceURL: "not a url",
		}

		err := (&main.AuditCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagemig.EINVALID, pagemig.ErrorCode(err))
	})
}

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for unknown slug", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Records: &mock.RecordService{
				FindRecordFn: func(_ context.Context, _ pagemig.ContentType, slug string) (pagemig.Record, error) {
					return nil, pagemig.Errorf(pagemig.ENOTFOUND, "routes record %q not found", slug)
				},
			},
		}

		err := (&main.ShowCmd{Type: "routes", Slug: "missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagemig.ENOTFOUND, pagemig.ErrorCode(err))
		assert.Contains(t, stderr.String(), `error: routes record "missing" not found`)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Records: &mock.RecordService{},
		}

		err := (&main.ShowCmd{Type: "hotels", Slug: "x"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagemig.EINVALID, pagemig.ErrorCode(err))
	})
}
