package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagemig"
)

// Ensure LoggingRecordService implements pagemig.RecordService.
var _ pagemig.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with debug logging of writes
// and lookups.
type LoggingRecordService struct {
	next   pagemig.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next pagemig.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// UpsertRecord delegates to the wrapped service and logs the outcome.
func (s *LoggingRecordService) UpsertRecord(ctx context.Context, rec pagemig.Record) (outcome pagemig.Outcome, err error) {
	defer s.logWrite("upsert record", rec, time.Now(), &outcome, &err)
	return s.next.UpsertRecord(ctx, rec)
}

// UpdateRecord delegates to the wrapped service and logs the outcome.
func (s *LoggingRecordService) UpdateRecord(ctx context.Context, rec pagemig.Record) (outcome pagemig.Outcome, err error) {
	defer s.logWrite("update record", rec, time.Now(), &outcome, &err)
	return s.next.UpdateRecord(ctx, rec)
}

func (s *LoggingRecordService) logWrite(msg string, rec pagemig.Record, begin time.Time, outcome *pagemig.Outcome, err *error) {
	var typ pagemig.ContentType
	var slug string
	if rec != nil {
		typ, slug = rec.Type(), rec.Core().Slug
	}
	s.logger.Info(msg,
		"type", typ,
		"slug", slug,
		"outcome", *outcome,
		"duration", time.Since(begin),
		"err", *err,
	)
}

// FindRecord delegates to the wrapped service and logs the lookup.
func (s *LoggingRecordService) FindRecord(ctx context.Context, t pagemig.ContentType, slug string) (rec pagemig.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find record",
			"type", t,
			"slug", slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRecord(ctx, t, slug)
}

// CountRecords delegates to the wrapped service.
func (s *LoggingRecordService) CountRecords(ctx context.Context, t pagemig.ContentType) (int, error) {
	return s.next.CountRecords(ctx, t)
}
