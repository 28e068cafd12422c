package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/export"
	"github.com/abhisek/scholar/internal/history"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export quiz history as XLSX or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		if format != "xlsx" && format != "json" {
			return fmt.Errorf("unknown format %q (want xlsx or json)", format)
		}
		if format == "xlsx" && path == "" {
			return fmt.Errorf("--out is required for xlsx")
		}

		d, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		results, err := d.history.LoadAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		if path == "" {
			return writeExport(cmd.OutOrStdout(), format, results, time.Now())
		}
		if err := exportToFile(path, format, results, time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d results to %s\n", len(results), path)
		return nil
	},
}

func writeExport(w io.Writer, format string, results []history.Result, now time.Time) error {
	var err error
	if format == "json" {
		err = export.WriteJSON(w, results, now)
	} else {
		err = export.WriteXLSX(w, results, now.Location())
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// exportToFile reports a failed Close, which is where a short write to a
// full disk surfaces.
func exportToFile(path, format string, results []history.Result, now time.Time) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return writeExport(f, format, results, now)
}

// importResults appends results, skipping ids already stored, and returns
// how many were added.
func importResults(ctx context.Context, store *history.Store, results []history.Result) (int, error) {
	before, err := store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}
	for _, r := range results {
		if err := store.Append(ctx, r); err != nil {
			return 0, fmt.Errorf("append result: %w", err)
		}
	}
	after, err := store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload history: %w", err)
	}
	return len(after) - len(before), nil
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import quiz history from a JSON export",
	Long: `Import reads a JSON export written by "scholar export --format json", or
a bare quizHistory array copied from the browser app. Results already present
(same id) are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		results, err := export.ReadJSON(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		d, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		added, err := importResults(cmd.Context(), d.history, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d results.\n", added, len(results))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "xlsx", "Output format: xlsx or json")
	exportCmd.Flags().StringP("out", "o", "", "Output file (json defaults to stdout)")
}
