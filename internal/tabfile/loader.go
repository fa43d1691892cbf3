// Package tabfile converts uploaded files into tables and tables back into
// downloadable CSV.
//
// Load dispatches on the file extension. Every decoding failure is reported
// as a *LoadError wrapping one of the sentinel errors below, so callers can
// branch with errors.Is and still show the file name to the user.
package tabfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/barredora/internal/table"
)

// Format identifies a supported input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Sentinel causes wrapped by LoadError.
var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptyFile         = errors.New("empty file")
	ErrEncoding          = errors.New("encoding error")
	ErrMalformed         = errors.New("invalid csv")
	ErrSpreadsheet       = errors.New("unreadable spreadsheet")
)

// LoadError reports a file that could not be turned into a table.
type LoadError struct {
	Format   Format
	FileName string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("load %q: %v", e.FileName, e.Err)
	}
	return fmt.Sprintf("load %s %q: %v", e.Format, e.FileName, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DetectFormat maps a file name to its input format by extension.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// Load decodes r into a table according to the extension of fileName.
func Load(ctx context.Context, fileName string, r io.Reader) (*table.Table, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, &LoadError{FileName: fileName, Err: err}
	}

	var t *table.Table
	switch format {
	case FormatCSV:
		t, err = loadCSV(ctx, r)
	case FormatXLSX:
		t, err = loadXLSX(ctx, r)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, &LoadError{Format: format, FileName: fileName, Err: err}
	}
	return t, nil
}

// headerNames turns raw header cells into unique column names. Blank headers
// become "Unnamed: <position>" and repeats get ".1", ".2", ... suffixes.
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]struct{}, len(raw))
	counts := make(map[string]int, len(raw))

	for i, h := range raw {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			counts[base]++
			name = fmt.Sprintf("%s.%d", base, counts[base])
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names
}

// rowCheckInterval is how many rows are decoded between context checks.
const rowCheckInterval = 1000
