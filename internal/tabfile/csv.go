package tabfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/barredora/internal/table"
)

// loadCSV reads a comma separated file whose first record is the header.
// Blank lines are skipped, short records are padded with missing values and
// records wider than the header are rejected.
func loadCSV(ctx context.Context, r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(WrapCSVInput(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, csvError(err)
	}
	names := headerNames(header)

	// Fields are collected column-wise because types are inferred per column.
	fields := make([][]string, len(names))
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line++

		if line%rowCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if len(record) > len(names) {
			row, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrMalformed, len(names), row, len(record))
		}
		for c := range names {
			field := ""
			if c < len(record) {
				field = record[c]
			}
			fields[c] = append(fields[c], field)
		}
	}

	columns := make([]table.Column, len(names))
	var rows [][]table.Value
	for c, name := range names {
		typ, values := table.InferStrings(fields[c])
		columns[c] = table.Column{Name: name, Type: typ}
		if rows == nil {
			rows = make([][]table.Value, len(values))
			for r := range rows {
				rows[r] = make([]table.Value, len(names))
			}
		}
		for r, v := range values {
			rows[r][c] = v
		}
	}

	return table.New(columns, rows)
}

// csvError classifies errors coming out of encoding/csv.
func csvError(err error) error {
	if errors.Is(err, ErrEncoding) {
		return err
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %v", ErrMalformed, parseErr)
	}
	return err
}
