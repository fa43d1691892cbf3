package table

import (
	"strconv"
	"time"
)

// Formatter renders the cells of one table for export and display.
type Formatter struct {
	dateOnly []bool
}

// NewFormatter inspects t once so datetime columns whose values all fall on
// midnight can be written as plain dates.
func NewFormatter(t *Table) *Formatter {
	f := &Formatter{dateOnly: make([]bool, len(t.columns))}
	for c, col := range t.columns {
		if col.Type != TypeDateTime {
			continue
		}
		f.dateOnly[c] = true
		for _, row := range t.rows {
			if ts, ok := row[c].AsTime(); ok && !isMidnight(ts) {
				f.dateOnly[c] = false
				break
			}
		}
	}
	return f
}

// FormatCell renders the value found in column c. Missing values render as
// the empty string.
func (f *Formatter) FormatCell(c int, v Value) string {
	switch v.Kind() {
	case KindNull:
		return ""
	case KindTime:
		ts, _ := v.AsTime()
		if c < len(f.dateOnly) && f.dateOnly[c] {
			return ts.Format("2006-01-02")
		}
		return formatTimestamp(ts)
	case KindFloat:
		fl, _ := v.AsFloat()
		return formatFloat(fl)
	case KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	}
	return v.Str()
}

// FormatRow renders a whole row.
func (f *Formatter) FormatRow(row []Value) []string {
	out := make([]string, len(row))
	for c, v := range row {
		out[c] = f.FormatCell(c, v)
	}
	return out
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
