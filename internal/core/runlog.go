package core

// runlog.go persists a record of each completed cleaning run.
//
// Only run metadata is stored (file name, counts, timing), never the table
// contents. The log is optional: when no database is configured the service
// runs with a nil RunRecorder and the runs page reports the log as disabled.

import (
	"context"
	"errors"
	"fmt"
	"time"

	db "github.com/JonMunkholm/barredora/internal/database"
	"github.com/jackc/pgx/v5"
)

// ErrRunLogDisabled is returned by run log queries when no database is configured.
var ErrRunLogDisabled = errors.New("run log disabled: no database configured")

// RunRecord is one entry of the run log.
type RunRecord struct {
	ID        string        `json:"id"`
	FileName  string        `json:"file_name"`
	Format    string        `json:"format"`
	BytesRead int64         `json:"bytes_read"`
	Metrics   Metrics       `json:"metrics"`
	Duration  time.Duration `json:"duration_ns"`
	ClientIP  string        `json:"client_ip,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// RunRecorder stores and lists run records.
type RunRecorder interface {
	Record(ctx context.Context, rec RunRecord) error
	Recent(ctx context.Context, limit int) ([]RunRecord, error)
	Get(ctx context.Context, id string) (RunRecord, error)
	Purge(ctx context.Context, olderThanDays int) (int64, error)
}

// PostgresRunLog is a RunRecorder backed by the cleaning_runs table.
type PostgresRunLog struct {
	conn db.DBTX
}

// NewPostgresRunLog returns a run log using conn, typically a *pgxpool.Pool.
func NewPostgresRunLog(conn db.DBTX) *PostgresRunLog {
	return &PostgresRunLog{conn: conn}
}

// EnsureSchema creates the cleaning_runs table if needed.
func (l *PostgresRunLog) EnsureSchema(ctx context.Context) error {
	return db.EnsureSchema(ctx, l.conn)
}

// Record inserts rec.
func (l *PostgresRunLog) Record(ctx context.Context, rec RunRecord) error {
	id := ToPgUUID(rec.ID)
	if !id.Valid {
		return fmt.Errorf("record run: invalid run id %q", rec.ID)
	}
	textColumns := rec.Metrics.TextColumns
	if textColumns == nil {
		textColumns = []string{}
	}

	_, err := db.New(l.conn).InsertCleaningRun(ctx, db.InsertCleaningRunParams{
		ID:                id,
		FileName:          rec.FileName,
		Format:            rec.Format,
		OriginalRows:      clampInt32(rec.Metrics.OriginalRowCount),
		CleanedRows:       clampInt32(rec.Metrics.CleanedRowCount),
		RowsRemoved:       clampInt32(rec.Metrics.RowsRemoved),
		DuplicatesRemoved: clampInt32(rec.Metrics.DuplicatesRemoved),
		EmptyRowsRemoved:  clampInt32(rec.Metrics.EmptyRowsRemoved),
		ColumnCount:       clampInt32(rec.Metrics.ColumnCount),
		TextColumns:       textColumns,
		DurationMs:        rec.Duration.Milliseconds(),
		BytesRead:         rec.BytesRead,
		ClientIp:          ToPgText(rec.ClientIP),
	})
	if err != nil {
		return fmt.Errorf("record run %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (l *PostgresRunLog) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := db.New(l.conn).ListRecentCleaningRuns(ctx, clampInt32(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	records := make([]RunRecord, len(rows))
	for i, row := range rows {
		records[i] = recordFromRow(row)
	}
	return records, nil
}

// Get returns the record with the given id, or ErrRunNotFound.
func (l *PostgresRunLog) Get(ctx context.Context, id string) (RunRecord, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return RunRecord{}, ErrRunNotFound
	}
	row, err := db.New(l.conn).GetCleaningRun(ctx, pgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return recordFromRow(row), nil
}

// Purge deletes records older than the given number of days.
func (l *PostgresRunLog) Purge(ctx context.Context, olderThanDays int) (int64, error) {
	n, err := db.New(l.conn).PurgeCleaningRuns(ctx, clampInt32(olderThanDays))
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return n, nil
}

func recordFromRow(row db.CleaningRun) RunRecord {
	return RunRecord{
		ID:        PgUUIDToString(row.ID),
		FileName:  row.FileName,
		Format:    row.Format,
		BytesRead: row.BytesRead,
		Metrics: Metrics{
			OriginalRowCount:  int(row.OriginalRows),
			CleanedRowCount:   int(row.CleanedRows),
			RowsRemoved:       int(row.RowsRemoved),
			ColumnCount:       int(row.ColumnCount),
			DuplicatesRemoved: int(row.DuplicatesRemoved),
			EmptyRowsRemoved:  int(row.EmptyRowsRemoved),
			TextColumns:       row.TextColumns,
		},
		Duration:  time.Duration(row.DurationMs) * time.Millisecond,
		ClientIP:  row.ClientIp.String,
		CreatedAt: PgTimeToTime(row.CreatedAt),
	}
}
