package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/mock"
	pmslog "github.com/fwojciec/pagemig/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordService(t *testing.T) {
	t.Parallel()

	route := &pagemig.Route{Base: pagemig.Base{Slug: "machame-route", Title: "Machame"}}

	t.Run("logs upsert outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RecordService{
			UpsertRecordFn: func(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
				return pagemig.OutcomeCreated, nil
			},
		}

		svc := pmslog.NewLoggingRecordService(inner, logger)
		outcome, err := svc.UpsertRecord(context.Background(), route)

		require.NoError(t, err)
		assert.Equal(t, pagemig.OutcomeCreated, outcome)
		output := buf.String()
		assert.Contains(t, output, "upsert record")
		assert.Contains(t, output, "type=routes")
		assert.Contains(t, output, "slug=machame-route")
		assert.Contains(t, output, "outcome=created")
	})

	t.Run("logs update error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RecordService{
			UpdateRecordFn: func(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
				return "", pagemig.Errorf(pagemig.ENOTFOUND, "not found")
			},
		}

		svc := pmslog.NewLoggingRecordService(inner, logger)
		_, err := svc.UpdateRecord(context.Background(), &pagemig.BlogPost{
			Base: pagemig.Base{Slug: "packing-list", Title: "Packing"},
		})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "update record")
		assert.Contains(t, output, "type=blog")
		assert.Contains(t, output, `err="pagemig error: code=not_found message=not found"`)
	})

	t.Run("logs lookups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RecordService{
			FindRecordFn: func(ctx context.Context, typ pagemig.ContentType, slug string) (pagemig.Record, error) {
				return route, nil
			},
			CountRecordsFn: func(ctx context.Context, typ pagemig.ContentType) (int, error) {
				return 3, nil
			},
		}

		svc := pmslog.NewLoggingRecordService(inner, logger)
		got, err := svc.FindRecord(context.Background(), pagemig.ContentTypeRoute, "machame-route")
		require.NoError(t, err)
		assert.Same(t, route, got)

		n, err := svc.CountRecords(context.Background(), pagemig.ContentTypeRoute)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Contains(t, buf.String(), "find record")
	})
}
