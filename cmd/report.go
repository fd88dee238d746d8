package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bucoapprove/mondash/internal/dataset"
	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/output"
	"github.com/bucoapprove/mondash/internal/store"
)

var (
	reportSnapshot      string
	reportUrgency       string
	reportPerson        string
	reportBoard         string
	reportExcludeStatus []string
	reportStats         bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest snapshot as a table",
	Long: `Render a stored snapshot as a table with colored urgency.

Without --snapshot the latest snapshot is used. --urgency accepts
overdue, attention, or none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun(cmd.Context())
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportSnapshot, "snapshot", "", "Snapshot id (default: latest)")
	reportCmd.Flags().StringVar(&reportUrgency, "urgency", "", "Filter by urgency: overdue, attention, none")
	reportCmd.Flags().StringVar(&reportPerson, "person", "", "Filter by person (substring, case-insensitive)")
	reportCmd.Flags().StringVar(&reportBoard, "board", "", "Filter by board name")
	reportCmd.Flags().StringSliceVar(&reportExcludeStatus, "exclude-status", nil, "Status values to exclude (repeatable)")
	reportCmd.Flags().BoolVar(&reportStats, "stats", false, "Print summary statistics instead of the record table")
	rootCmd.AddCommand(reportCmd)
}

func reportRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	snap, err := resolveSnapshotArg(ctx, s, reportSnapshot)
	if err != nil {
		return err
	}

	filter := store.RecordFilter{
		Person:         reportPerson,
		Board:          reportBoard,
		ExcludedStatus: reportExcludeStatus,
	}
	if reportUrgency != "" {
		u, err := parseUrgencyFlag(reportUrgency)
		if err != nil {
			return err
		}
		filter.Urgency = &u
	}

	records, err := s.ListRecords(ctx, snap.ID, filter)
	if err != nil {
		return err
	}

	ui.Info("Snapshot %s (%s): %d boards, %d items",
		snap.ID, snap.FetchedAt.Format("2006-01-02 15:04"), snap.BoardCount, snap.ItemCount)
	fmt.Fprintln(ui.Out)

	if reportStats {
		printStats(dataset.ComputeStats(records))
		return nil
	}

	if len(records) == 0 {
		ui.Info("No records match.")
		return nil
	}

	table := ui.Table([]string{"Item", "Group", "Board", "Persons", "Date", "Status", "Urgency"})
	for _, r := range records {
		table.Append([]string{
			r.Name,
			r.Group,
			output.Cyan(r.Board),
			r.Persons,
			r.Date,
			output.StatusColor(r.Status),
			output.UrgencyColor(r.Urgency),
		})
	}
	table.Render()
	return nil
}

func printStats(stats dataset.Stats) {
	fmt.Fprintf(ui.Out, "  %-16s %d\n", "Items", stats.TotalItems)
	fmt.Fprintf(ui.Out, "  %-16s %d\n", "Persons", stats.UniquePersons)
	fmt.Fprintf(ui.Out, "  %-16s %s\n", models.UrgencyOverdue.DisplayName(), output.Red(fmt.Sprintf("%d", stats.OverdueCount)))
	fmt.Fprintf(ui.Out, "  %-16s %s\n", models.UrgencyAttention.DisplayName(), output.Yellow(fmt.Sprintf("%d", stats.AttentionCount)))
	fmt.Fprintln(ui.Out)

	statuses := make([]string, 0, len(stats.ByStatus))
	for status := range stats.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	fmt.Fprintln(ui.Out, "  By status:")
	for _, status := range statuses {
		fmt.Fprintf(ui.Out, "    %-24s %d\n", output.StatusColor(status), stats.ByStatus[status])
	}
}

// resolveSnapshotArg returns the named snapshot, or the latest when id is empty.
func resolveSnapshotArg(ctx context.Context, s store.Store, id string) (*models.Snapshot, error) {
	if id != "" {
		return s.GetSnapshot(ctx, id)
	}
	snap, err := s.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("no snapshots stored yet (run 'mondash fetch' first): %w", err)
	}
	return snap, nil
}

func parseUrgencyFlag(value string) (models.Urgency, error) {
	switch strings.ToLower(value) {
	case "overdue":
		return models.UrgencyOverdue, nil
	case "attention":
		return models.UrgencyAttention, nil
	case "none":
		return models.UrgencyNone, nil
	default:
		return models.UrgencyNone, fmt.Errorf("unknown urgency %q (use: overdue, attention, none)", value)
	}
}
