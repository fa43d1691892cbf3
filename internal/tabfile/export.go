package tabfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/barredora/internal/table"
)

// CSVContentType is the media type of WriteCSV output.
const CSVContentType = "text/csv"

// WriteCSV writes t as comma separated UTF-8 text: a header row followed by
// one line per row, without an index column. Missing values are empty.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	f := table.NewFormatter(t)
	for r := 0; r < t.NumRows(); r++ {
		if err := cw.Write(f.FormatRow(t.Row(r))); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// DownloadName derives the name offered for the cleaned file:
// "cleaned_" + the original name without its last extension + ".csv".
func DownloadName(fileName string) string {
	base := fileName
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return "cleaned_" + base + ".csv"
}
