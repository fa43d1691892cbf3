package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/JonMunkholm/barredora/internal/tabfile"
	"github.com/JonMunkholm/barredora/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stdoutName selects standard output as the destination.
const stdoutName = "-"

var errOverwriteInput = errors.New("output would overwrite the input file")

func newCleanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Clean a CSV or Excel file",
		Long: `Clean removes duplicate rows, then rows without any value, then
capitalizes every text column. The result is written as CSV.

By default the output goes next to FILE as cleaned_<name>.csv. Use
-o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "output file (default: cleaned_<name>.csv next to FILE, - for stdout)")
	flags.Duration("timeout", core.DefaultRunTimeout, "maximum duration of the cleaning run")

	return cmd
}

func runClean(cmd *cobra.Command, v *viper.Viper, path string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := core.NewService(core.Options{
		MaxConcurrent: 1,
		Timeout:       v.GetDuration("timeout"),
		PreviewRows:   1,
	})
	defer svc.Close()

	run, err := cleanFile(ctx, svc, path)
	if err != nil {
		return err
	}

	out := v.GetString("output")
	if out == "" {
		out = filepath.Join(filepath.Dir(path), run.DownloadName)
	}
	if err := writeCleaned(cmd, path, out, run.Cleaned); err != nil {
		return err
	}

	m := run.Metrics
	logInfo(cmd, v, "cleaned %s -> %s", path, out)
	logInfo(cmd, v, "  rows:               %d -> %d (%d removed)", m.OriginalRowCount, m.CleanedRowCount, m.RowsRemoved)
	logInfo(cmd, v, "  duplicates removed: %d", m.DuplicatesRemoved)
	logInfo(cmd, v, "  empty rows removed: %d", m.EmptyRowsRemoved)
	logInfo(cmd, v, "  columns:            %d", m.ColumnCount)
	logInfo(cmd, v, "  text columns:       %s", strings.Join(m.TextColumns, ", "))
	return nil
}

func cleanFile(ctx context.Context, svc *core.Service, path string) (*core.Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	run, err := svc.Clean(ctx, filepath.Base(path), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", core.FormatUserError(err), err)
	}
	return run, nil
}

// writeCleaned writes t as CSV to out, or to stdout when out is "-".
func writeCleaned(cmd *cobra.Command, in, out string, t *table.Table) error {
	if out == stdoutName {
		return tabfile.WriteCSV(cmd.OutOrStdout(), t)
	}
	if sameFile(in, out) {
		return fmt.Errorf("%w: %s", errOverwriteInput, out)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := tabfile.WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	return f.Close()
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
