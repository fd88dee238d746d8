package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/store"
)

var (
	exportFormat   string
	exportSnapshot string
	exportOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a snapshot as JSON, CSV, YAML, or Markdown",
	Long: `Export a stored snapshot's records in various formats.

Without --out the export is written to stdout. When --out is a
directory, a dated file name (monday_items_YYYYMMDD.<ext>) is used.
CSV uses ';' as the field separator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun(cmd.Context())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, yaml, markdown")
	exportCmd.Flags().StringVar(&exportSnapshot, "snapshot", "", "Snapshot id (default: latest)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file or directory (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func exportRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	snap, err := resolveSnapshotArg(ctx, s, exportSnapshot)
	if err != nil {
		return err
	}

	records, err := s.ListRecords(ctx, snap.ID, store.RecordFilter{})
	if err != nil {
		return err
	}

	var out io.Writer = ui.Out
	if exportOut != "" {
		path, err := exportPath(exportOut, exportFormat, snap.FetchedAt)
		if err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
		ui.Success("Exporting snapshot %s to %s", snap.ID, path)
	}

	return writeExport(out, exportFormat, records)
}

// exportPath resolves --out into a concrete file path. A directory
// target gets a dated file name inside it.
func exportPath(out, format string, fetchedAt time.Time) (string, error) {
	ext, err := formatExt(format)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(out)
	if err == nil && info.IsDir() {
		name := fmt.Sprintf("monday_items_%s.%s", fetchedAt.Format("20060102"), ext)
		return filepath.Join(out, name), nil
	}
	return out, nil
}

func formatExt(format string) (string, error) {
	switch format {
	case "json", "csv", "yaml":
		return format, nil
	case "markdown":
		return "md", nil
	default:
		return "", fmt.Errorf("unknown format: %s (use: json, csv, yaml, markdown)", format)
	}
}

func writeExport(w io.Writer, format string, records []models.Record) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "csv":
		return writeCSV(w, records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(records)
	case "markdown":
		fmt.Fprintln(w, "# Monday Items")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Item | Group | Board | Persons | Date | Status | Urgency |")
		fmt.Fprintln(w, "|------|-------|-------|---------|------|--------|---------|")
		for _, r := range records {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				r.Name, r.Group, r.Board, r.Persons, r.Date, r.Status, r.Urgency.DisplayName())
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use: json, csv, yaml, markdown)", format)
	}
}

func writeCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.Write([]string{"ID", "Name", "Group", "Board", "Persons", "Date", "Status", "Urgency"})
	for _, r := range records {
		cw.Write([]string{r.ID, r.Name, r.Group, r.Board, r.Persons, r.Date, r.Status, r.Urgency.DisplayName()})
	}
	cw.Flush()
	return cw.Error()
}
