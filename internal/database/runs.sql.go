// source: runs.sql

package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertCleaningRun = `-- name: InsertCleaningRun :one
INSERT INTO cleaning_runs (
    id, file_name, format, original_rows, cleaned_rows, rows_removed,
    duplicates_removed, empty_rows_removed, column_count, text_columns,
    duration_ms, bytes_read, client_ip
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, file_name, format, original_rows, cleaned_rows, rows_removed, duplicates_removed, empty_rows_removed, column_count, text_columns, duration_ms, bytes_read, client_ip, created_at
`

type InsertCleaningRunParams struct {
	ID                pgtype.UUID
	FileName          string
	Format            string
	OriginalRows      int32
	CleanedRows       int32
	RowsRemoved       int32
	DuplicatesRemoved int32
	EmptyRowsRemoved  int32
	ColumnCount       int32
	TextColumns       []string
	DurationMs        int64
	BytesRead         int64
	ClientIp          pgtype.Text
}

func (q *Queries) InsertCleaningRun(ctx context.Context, arg InsertCleaningRunParams) (CleaningRun, error) {
	row := q.db.QueryRow(ctx, insertCleaningRun,
		arg.ID,
		arg.FileName,
		arg.Format,
		arg.OriginalRows,
		arg.CleanedRows,
		arg.RowsRemoved,
		arg.DuplicatesRemoved,
		arg.EmptyRowsRemoved,
		arg.ColumnCount,
		arg.TextColumns,
		arg.DurationMs,
		arg.BytesRead,
		arg.ClientIp,
	)
	var i CleaningRun
	err := row.Scan(
		&i.ID,
		&i.FileName,
		&i.Format,
		&i.OriginalRows,
		&i.CleanedRows,
		&i.RowsRemoved,
		&i.DuplicatesRemoved,
		&i.EmptyRowsRemoved,
		&i.ColumnCount,
		&i.TextColumns,
		&i.DurationMs,
		&i.BytesRead,
		&i.ClientIp,
		&i.CreatedAt,
	)
	return i, err
}

const getCleaningRun = `-- name: GetCleaningRun :one
SELECT id, file_name, format, original_rows, cleaned_rows, rows_removed, duplicates_removed, empty_rows_removed, column_count, text_columns, duration_ms, bytes_read, client_ip, created_at
FROM cleaning_runs
WHERE id = $1
`

func (q *Queries) GetCleaningRun(ctx context.Context, id pgtype.UUID) (CleaningRun, error) {
	row := q.db.QueryRow(ctx, getCleaningRun, id)
	var i CleaningRun
	err := row.Scan(
		&i.ID,
		&i.FileName,
		&i.Format,
		&i.OriginalRows,
		&i.CleanedRows,
		&i.RowsRemoved,
		&i.DuplicatesRemoved,
		&i.EmptyRowsRemoved,
		&i.ColumnCount,
		&i.TextColumns,
		&i.DurationMs,
		&i.BytesRead,
		&i.ClientIp,
		&i.CreatedAt,
	)
	return i, err
}

const listRecentCleaningRuns = `-- name: ListRecentCleaningRuns :many
SELECT id, file_name, format, original_rows, cleaned_rows, rows_removed, duplicates_removed, empty_rows_removed, column_count, text_columns, duration_ms, bytes_read, client_ip, created_at
FROM cleaning_runs
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListRecentCleaningRuns(ctx context.Context, limit int32) ([]CleaningRun, error) {
	rows, err := q.db.Query(ctx, listRecentCleaningRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CleaningRun
	for rows.Next() {
		var i CleaningRun
		if err := rows.Scan(
			&i.ID,
			&i.FileName,
			&i.Format,
			&i.OriginalRows,
			&i.CleanedRows,
			&i.RowsRemoved,
			&i.DuplicatesRemoved,
			&i.EmptyRowsRemoved,
			&i.ColumnCount,
			&i.TextColumns,
			&i.DurationMs,
			&i.BytesRead,
			&i.ClientIp,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const purgeCleaningRuns = `-- name: PurgeCleaningRuns :execrows
DELETE FROM cleaning_runs
WHERE created_at < now() - make_interval(days => $1::int)
`

func (q *Queries) PurgeCleaningRuns(ctx context.Context, days int32) (int64, error) {
	result, err := q.db.Exec(ctx, purgeCleaningRuns, days)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
