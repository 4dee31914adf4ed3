package pagemig

import "context"

// RecordExporter writes extracted records to an external location with
// atomic semantics. Export writes to a temporary location; Commit makes the
// batch visible; Abort discards it.
type RecordExporter interface {
	Export(ctx context.Context, rec Record) error
	Commit() error
	Abort() error
}
