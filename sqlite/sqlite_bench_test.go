package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkUpsertRecord measures a migration-like workload: many distinct
// records upserted one at a time against a file database.
func BenchmarkUpsertRecord(b *testing.B) {
	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())
	b.Cleanup(func() { db.Close() })

	svc := sqlite.NewRecordService(db)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := &pagemig.Destination{
			Base:        pagemig.Base{Slug: fmt.Sprintf("park-%d", i), Title: "Park", Gallery: []string{}},
			Name:        "Park",
			Circuit:     pagemig.CircuitUnknown,
			Description: "Grassland and acacia woodland.",
		}
		_, err := svc.UpsertRecord(ctx, rec)
		require.NoError(b, err)
	}
}
