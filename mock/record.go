package mock

import (
	"context"

	"github.com/fwojciec/pagemig"
)

var _ pagemig.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of pagemig.RecordService.
type RecordService struct {
	UpsertRecordFn func(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error)
	UpdateRecordFn func(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error)
	FindRecordFn   func(ctx context.Context, t pagemig.ContentType, slug string) (pagemig.Record, error)
	CountRecordsFn func(ctx context.Context, t pagemig.ContentType) (int, error)
}

func (s *RecordService) UpsertRecord(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
	return s.UpsertRecordFn(ctx, rec)
}

func (s *RecordService) UpdateRecord(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
	return s.UpdateRecordFn(ctx, rec)
}

func (s *RecordService) FindRecord(ctx context.Context, t pagemig.ContentType, slug string) (pagemig.Record, error) {
	return s.FindRecordFn(ctx, t, slug)
}

func (s *RecordService) CountRecords(ctx context.Context, t pagemig.ContentType) (int, error) {
	return s.CountRecordsFn(ctx, t)
}

var _ pagemig.RecordExporter = (*RecordExporter)(nil)

// RecordExporter is a mock implementation of pagemig.RecordExporter.
type RecordExporter struct {
	ExportFn func(ctx context.Context, rec pagemig.Record) error
	CommitFn func() error
	AbortFn  func() error
}

func (e *RecordExporter) Export(ctx context.Context, rec pagemig.Record) error {
	return e.ExportFn(ctx, rec)
}

func (e *RecordExporter) Commit() error {
	return e.CommitFn()
}

func (e *RecordExporter) Abort() error {
	return e.AbortFn()
}
