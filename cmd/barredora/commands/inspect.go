package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInspectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the shape, column profile and first rows of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.Int("rows", core.DefaultPreviewRows, "number of leading rows to show")
	flags.Bool("json", false, "print the inspection as JSON")

	return cmd
}

func runInspect(cmd *cobra.Command, v *viper.Viper, path string) error {
	rows := v.GetInt("rows")
	if rows <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", rows)
	}

	svc := core.NewService(core.Options{MaxConcurrent: 1, PreviewRows: rows})
	defer svc.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	insp, err := svc.Inspect(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
	}

	out := cmd.OutOrStdout()
	if v.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(insp)
	}

	fmt.Fprintf(out, "%s (%s): %d rows, %d columns\n\n", insp.FileName, insp.Format, insp.Summary.Rows, insp.Summary.Columns)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tTEXT\tNON-NULL\tNULL")
	for _, p := range insp.Summary.Profiles {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%d\n", p.Name, p.Type, p.TextLike, p.NonNull, p.Null)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(insp.Preview.Columns, "\t"))
	for _, row := range insp.Preview.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
