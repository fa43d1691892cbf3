package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type CleaningRun struct {
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
	CreatedAt         pgtype.Timestamptz
}
