package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagemig"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagemig.RecordService = (*RecordService)(nil)

// RecordService implements pagemig.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// hashContent computes the xxHash of a record's encoded form as hex.
func hashContent(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// row is the stored form of a record.
type row struct {
	table string
	slug  string
	base  *pagemig.Base
	data  []byte
	hash  string
}

func encode(rec pagemig.Record) (*row, error) {
	if rec == nil {
		return nil, pagemig.Errorf(pagemig.EINVALID, "record required")
	}
	if _, err := pagemig.ParseContentType(string(rec.Type())); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s %q: %w", rec.Type(), rec.Core().Slug, err)
	}
	return &row{
		table: tableName(rec.Type()),
		slug:  rec.Core().Slug,
		base:  rec.Core(),
		data:  data,
		hash:  hashContent(data),
	}, nil
}

// UpsertRecord creates the record or replaces every field of the existing
// record with the same slug.
func (s *RecordService) UpsertRecord(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
	return s.write(ctx, rec, true)
}

// UpdateRecord replaces every field of an existing record.
// Returns ENOTFOUND if no record of the type has the slug.
func (s *RecordService) UpdateRecord(ctx context.Context, rec pagemig.Record) (pagemig.Outcome, error) {
	return s.write(ctx, rec, false)
}

func (s *RecordService) write(ctx context.Context, rec pagemig.Record, create bool) (pagemig.Outcome, error) {
	r, err := encode(rec)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT content_hash FROM %s WHERE slug = ?`, r.table), r.slug,
	).Scan(&current)

	now := time.Now().UTC().Format(time.RFC3339)
	var outcome pagemig.Outcome
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if !create {
			return "", pagemig.Errorf(pagemig.ENOTFOUND, "%s record %q not found", rec.Type(), r.slug)
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, slug, title, meta_title, meta_description, featured_image, data, content_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.table), uuid.New().String(), r.slug, r.base.Title, r.base.MetaTitle, r.base.MetaDescription,
			r.base.FeaturedImage, string(r.data), r.hash, now, now)
		outcome = pagemig.OutcomeCreated
	case err != nil:
		return "", err
	case current == r.hash:
		return pagemig.OutcomeUnchanged, nil
	default:
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %s
			SET title = ?, meta_title = ?, meta_description = ?, featured_image = ?, data = ?, content_hash = ?, updated_at = ?
			WHERE slug = ?
		`, r.table), r.base.Title, r.base.MetaTitle, r.base.MetaDescription, r.base.FeaturedImage,
			string(r.data), r.hash, now, r.slug)
		outcome = pagemig.OutcomeUpdated
	}
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return outcome, nil
}

// FindRecord retrieves a record by type and slug.
func (s *RecordService) FindRecord(ctx context.Context, t pagemig.ContentType, slug string) (pagemig.Record, error) {
	rec, err := pagemig.NewRecord(t)
	if err != nil {
		return nil, err
	}

	var data string
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE slug = ?`, tableName(t)), slug,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pagemig.Errorf(pagemig.ENOTFOUND, "%s record %q not found", t, slug)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("decode %s %q: %w", t, slug, err)
	}
	return rec, nil
}

// CountRecords returns the number of stored records of a type.
func (s *RecordService) CountRecords(ctx context.Context, t pagemig.ContentType) (int, error) {
	if _, err := pagemig.ParseContentType(string(t)); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, tableName(t))).Scan(&n)
	return n, err
}

// FindUpdatedAt returns when the record was last changed.
// Returns ENOTFOUND if the record does not exist.
func (s *RecordService) FindUpdatedAt(ctx context.Context, t pagemig.ContentType, slug string) (time.Time, error) {
	if _, err := pagemig.ParseContentType(string(t)); err != nil {
		return time.Time{}, err
	}
	var value string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT updated_at FROM %s WHERE slug = ?`, tableName(t)), slug,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, pagemig.Errorf(pagemig.ENOTFOUND, "%s record %q not found", t, slug)
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseRFC3339(value, "updated_at")
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
