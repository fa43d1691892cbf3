package core

// pipeline.go implements the cleaning pipeline.
//
// Clean applies three steps in a fixed order, each producing a new table:
//
//  1. RemoveDuplicates keeps the first occurrence of every distinct row
//  2. RemoveEmptyRows drops rows in which every value is missing
//  3. NormalizeText rewrites each text column as capitalized strings
//
// The input table is never modified. Text columns are classified after the
// first two steps have run.

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/JonMunkholm/barredora/internal/table"
)

// Metrics summarizes one cleaning run.
type Metrics struct {
	OriginalRowCount  int      `json:"original_row_count"`
	CleanedRowCount   int      `json:"cleaned_row_count"`
	RowsRemoved       int      `json:"rows_removed"`
	ColumnCount       int      `json:"column_count"`
	DuplicatesRemoved int      `json:"duplicates_removed"`
	EmptyRowsRemoved  int      `json:"empty_rows_removed"`
	TextColumns       []string `json:"text_columns"`
}

// Clean runs the full pipeline on t and reports what it changed.
func Clean(t *table.Table) (*table.Table, Metrics) {
	deduped := RemoveDuplicates(t)
	nonEmpty := RemoveEmptyRows(deduped)
	cleaned, textColumns := NormalizeText(nonEmpty)

	return cleaned, Metrics{
		OriginalRowCount:  t.NumRows(),
		CleanedRowCount:   cleaned.NumRows(),
		RowsRemoved:       t.NumRows() - cleaned.NumRows(),
		ColumnCount:       cleaned.NumColumns(),
		DuplicatesRemoved: t.NumRows() - deduped.NumRows(),
		EmptyRowsRemoved:  deduped.NumRows() - nonEmpty.NumRows(),
		TextColumns:       textColumns,
	}
}

// RemoveDuplicates keeps the first occurrence of each row, comparing every
// column. Missing values compare equal to each other.
func RemoveDuplicates(t *table.Table) *table.Table {
	seen := make(map[string]struct{}, t.NumRows())
	return t.Filter(func(row []table.Value) bool {
		key := table.RowKey(row)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// RemoveEmptyRows drops rows whose values are all missing. A table without
// columns is returned unchanged.
func RemoveEmptyRows(t *table.Table) *table.Table {
	if t.NumColumns() == 0 {
		return t
	}
	return t.Filter(func(row []table.Value) bool {
		for _, v := range row {
			if !v.IsNull() {
				return true
			}
		}
		return false
	})
}

// NormalizeText converts every value of the text columns of t to its string
// form and capitalizes it. Missing values become "Nan". It returns the new
// table and the names of the columns it rewrote.
func NormalizeText(t *table.Table) (*table.Table, []string) {
	columns := t.Columns()
	var indexes []int
	names := []string{}
	for i, class := range table.Classify(t) {
		if class == table.ClassText {
			indexes = append(indexes, i)
			names = append(names, columns[i].Name)
		}
	}

	return t.Transform(indexes, func(v table.Value) table.Value {
		return table.String(Capitalize(v.Str()))
	}), names
}

// Capitalize upper-cases the first character of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
