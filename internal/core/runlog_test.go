package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	db "github.com/JonMunkholm/barredora/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// fakeDB is an in-memory DBTX serving canned cleaning_runs rows.
type fakeDB struct {
	rows     []db.CleaningRun
	err      error
	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("DELETE 3"), nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{rows: f.rows, pos: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{run: f.rows[0]}
}

type fakeRow struct {
	run db.CleaningRun
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanRun(r.run, dest)
}

type fakeRows struct {
	rows []db.CleaningRun
	pos  int
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error { return scanRun(r.rows[r.pos], dest) }

func (r *fakeRows) Values() ([]any, error) { return nil, nil }

func (r *fakeRows) RawValues() [][]byte { return nil }

func (r *fakeRows) Conn() *pgx.Conn { return nil }

func scanRun(run db.CleaningRun, dest []any) error {
	if len(dest) != 14 {
		return errors.New("unexpected column count")
	}
	*dest[0].(*pgtype.UUID) = run.ID
	*dest[1].(*string) = run.FileName
	*dest[2].(*string) = run.Format
	*dest[3].(*int32) = run.OriginalRows
	*dest[4].(*int32) = run.CleanedRows
	*dest[5].(*int32) = run.RowsRemoved
	*dest[6].(*int32) = run.DuplicatesRemoved
	*dest[7].(*int32) = run.EmptyRowsRemoved
	*dest[8].(*int32) = run.ColumnCount
	*dest[9].(*[]string) = run.TextColumns
	*dest[10].(*int64) = run.DurationMs
	*dest[11].(*int64) = run.BytesRead
	*dest[12].(*pgtype.Text) = run.ClientIp
	*dest[13].(*pgtype.Timestamptz) = run.CreatedAt
	return nil
}

const testRunID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func sampleRow() db.CleaningRun {
	return db.CleaningRun{
		ID:               ToPgUUID(testRunID),
		FileName:         "people.csv",
		Format:           "csv",
		OriginalRows:     4,
		CleanedRows:      3,
		RowsRemoved:      1,
		EmptyRowsRemoved: 1,
		ColumnCount:      2,
		TextColumns:      []string{"name"},
		DurationMs:       12,
		BytesRead:        31,
		ClientIp:         ToPgText("10.0.0.1"),
		CreatedAt:        pgtype.Timestamptz{Time: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), Valid: true},
	}
}

func TestPostgresRunLogRecord(t *testing.T) {
	fake := &fakeDB{rows: []db.CleaningRun{sampleRow()}}
	log := NewPostgresRunLog(fake)

	err := log.Record(context.Background(), RunRecord{
		ID:        testRunID,
		FileName:  "people.csv",
		Format:    "csv",
		BytesRead: 31,
		Metrics:   Metrics{OriginalRowCount: 4, CleanedRowCount: 3, RowsRemoved: 1},
		Duration:  12 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if got := fake.lastArgs[9]; !reflect.DeepEqual(got, []string{}) {
		t.Errorf("text_columns arg = %#v, want empty slice", got)
	}
	if got := fake.lastArgs[10]; got != int64(12) {
		t.Errorf("duration_ms arg = %v, want 12", got)
	}
	if got := fake.lastArgs[11]; got != int64(31) {
		t.Errorf("bytes_read arg = %v, want 31", got)
	}
	if got := fake.lastArgs[12].(pgtype.Text); got.Valid {
		t.Errorf("client_ip arg = %v, want NULL", got)
	}
}

func TestPostgresRunLogRecordRejectsBadID(t *testing.T) {
	log := NewPostgresRunLog(&fakeDB{})
	if err := log.Record(context.Background(), RunRecord{ID: "nope"}); err == nil {
		t.Error("Record() with invalid id should fail")
	}
}

func TestPostgresRunLogGet(t *testing.T) {
	log := NewPostgresRunLog(&fakeDB{rows: []db.CleaningRun{sampleRow()}})

	rec, err := log.Get(context.Background(), testRunID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	want := RunRecord{
		ID:        testRunID,
		FileName:  "people.csv",
		Format:    "csv",
		BytesRead: 31,
		Metrics: Metrics{
			OriginalRowCount: 4,
			CleanedRowCount:  3,
			RowsRemoved:      1,
			ColumnCount:      2,
			EmptyRowsRemoved: 1,
			TextColumns:      []string{"name"},
		},
		Duration:  12 * time.Millisecond,
		ClientIP:  "10.0.0.1",
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("Get() = %+v, want %+v", rec, want)
	}
}

func TestPostgresRunLogGetNotFound(t *testing.T) {
	log := NewPostgresRunLog(&fakeDB{})

	if _, err := log.Get(context.Background(), testRunID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("missing row: err = %v, want ErrRunNotFound", err)
	}
	if _, err := log.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("bad id: err = %v, want ErrRunNotFound", err)
	}
}

func TestPostgresRunLogRecent(t *testing.T) {
	second := sampleRow()
	second.FileName = "orders.xlsx"
	fake := &fakeDB{rows: []db.CleaningRun{sampleRow(), second}}

	recs, err := NewPostgresRunLog(fake).Recent(context.Background(), 20)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recs) != 2 || recs[1].FileName != "orders.xlsx" {
		t.Errorf("Recent() = %+v", recs)
	}
	if got := fake.lastArgs[0]; got != int32(20) {
		t.Errorf("limit arg = %v, want 20", got)
	}
}

func TestPostgresRunLogPurge(t *testing.T) {
	n, err := NewPostgresRunLog(&fakeDB{}).Purge(context.Background(), 30)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Purge() = %d, want 3", n)
	}

	_, err = NewPostgresRunLog(&fakeDB{err: errors.New("connection refused")}).Purge(context.Background(), 30)
	if err == nil {
		t.Error("Purge() should surface database errors")
	}
}
