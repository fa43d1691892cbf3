package tabfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/barredora/internal/table"
)

// loadXLSX reads the first worksheet of a workbook. The first non-empty row
// is the header; fully empty rows are skipped.
func loadXLSX(ctx context.Context, r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSpreadsheet)
	}
	sheet := sheets[0]

	rawRows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheet, err)
	}

	dec, err := newCellDecoder(f, sheet)
	if err != nil {
		return nil, err
	}

	var header []string
	var cells [][]table.Value
	width := 0
	for i, raw := range rawRows {
		if i%rowCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(raw) {
			continue
		}
		if header == nil {
			header = raw
			width = len(raw)
			continue
		}

		row := make([]table.Value, len(raw))
		for c, s := range raw {
			v, err := dec.decode(c, i, s)
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
		cells = append(cells, row)
		width = max(width, len(raw))
	}

	if header == nil {
		return nil, ErrEmptyFile
	}

	rawNames := make([]string, width)
	copy(rawNames, header)
	names := headerNames(rawNames)

	rows := make([][]table.Value, len(cells))
	for r, row := range cells {
		padded := make([]table.Value, width)
		copy(padded, row)
		rows[r] = padded
	}

	t, err := table.FromValues(names, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheet, err)
	}
	return t, nil
}

func isBlankRow(raw []string) bool {
	for _, s := range raw {
		if s != "" {
			return false
		}
	}
	return true
}

// cellDecoder turns raw cell text into typed values using the cell type and
// number format stored in the workbook.
type cellDecoder struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	dateFmt  map[int]bool
}

func newCellDecoder(f *excelize.File, sheet string) (*cellDecoder, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpreadsheet, err)
	}
	d := &cellDecoder{f: f, sheet: sheet, dateFmt: make(map[int]bool)}
	if props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d, nil
}

// decode converts the raw value of the cell at zero-based (col, row).
func (d *cellDecoder) decode(col, row int, raw string) (table.Value, error) {
	if raw == "" {
		return table.Null(), nil
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return table.Value{}, fmt.Errorf("%w: %v", ErrSpreadsheet, err)
	}
	typ, err := d.f.GetCellType(d.sheet, cell)
	if err != nil {
		return table.Value{}, fmt.Errorf("%w: cell %s: %v", ErrSpreadsheet, cell, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return table.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if ts, ok := parseISODate(raw); ok {
			return table.Time(ts), nil
		}
		return textValue(raw), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return textValue(raw), nil
		}
		isDate, err := d.isDateCell(cell)
		if err != nil {
			return table.Value{}, err
		}
		if isDate {
			ts, err := excelize.ExcelDateToTime(num, d.date1904)
			if err == nil {
				return table.Time(ts.Round(time.Millisecond)), nil
			}
		}
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return table.Int(i), nil
		}
		return table.Float(num), nil
	}
	// Shared and inline strings, formula strings and error values.
	return textValue(raw), nil
}

func textValue(s string) table.Value {
	if table.IsNullMarker(s) {
		return table.Null()
	}
	return table.String(s)
}

// isDateCell reports whether the cell's number format displays a date or time.
func (d *cellDecoder) isDateCell(cell string) (bool, error) {
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("%w: cell %s: %v", ErrSpreadsheet, cell, err)
	}
	if isDate, ok := d.dateFmt[styleID]; ok {
		return isDate, nil
	}

	isDate := false
	if styleID != 0 {
		style, err := d.f.GetStyle(styleID)
		if err != nil {
			return false, fmt.Errorf("%w: style %d: %v", ErrSpreadsheet, styleID, err)
		}
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = isBuiltInDateFormat(style.NumFmt)
		}
	}
	d.dateFmt[styleID] = isDate
	return isDate, nil
}

// isBuiltInDateFormat reports whether a built-in number format id is a date
// or time format.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or time
// tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case strings.ContainsRune("ymdhsYMDHS", r):
			return true
		}
	}
	return false
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
