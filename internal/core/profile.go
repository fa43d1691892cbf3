package core

import "github.com/JonMunkholm/barredora/internal/table"

// DefaultPreviewRows is how many leading rows a preview shows.
const DefaultPreviewRows = 5

// ColumnProfile describes one column of a table.
type ColumnProfile struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	TextLike bool   `json:"text_like"`
	NonNull  int    `json:"non_null"`
	Null     int    `json:"null"`
}

// Summary is the shape of a table and a profile of each column.
type Summary struct {
	Rows     int             `json:"rows"`
	Columns  int             `json:"columns"`
	Profiles []ColumnProfile `json:"profiles"`
}

// Summarize counts rows and columns and profiles every column of t.
func Summarize(t *table.Table) Summary {
	cols := t.Columns()
	profiles := make([]ColumnProfile, len(cols))
	for c, col := range cols {
		profiles[c] = ColumnProfile{
			Name:     col.Name,
			Type:     col.Type.String(),
			TextLike: col.Class() == table.ClassText,
		}
	}
	for r := 0; r < t.NumRows(); r++ {
		for c := range cols {
			if t.At(r, c).IsNull() {
				profiles[c].Null++
			} else {
				profiles[c].NonNull++
			}
		}
	}
	return Summary{Rows: t.NumRows(), Columns: t.NumColumns(), Profiles: profiles}
}

// Preview is the first rows of a table rendered as display strings.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PreviewRows renders at most n leading rows of t. Missing values render as
// empty cells.
func PreviewRows(t *table.Table, n int) Preview {
	head := t.Head(n)
	f := table.NewFormatter(t)
	rows := make([][]string, head.NumRows())
	for r := range rows {
		rows[r] = f.FormatRow(head.Row(r))
	}
	return Preview{Columns: head.ColumnNames(), Rows: rows}
}
