package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bucoapprove/mondash/internal/dataset"
	"github.com/bucoapprove/mondash/internal/models"
)

var (
	fetchFrom          string
	fetchTo            string
	fetchExcludeStatus []string
	fetchNoSave        bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch boards and items from Monday.com and store a snapshot",
	Long: `Run the full pipeline: fetch boards, users, and items from the
Monday.com API, normalize every item into a flat record, classify
urgency against today, and save the result as a new snapshot.

Dates for --from/--to use YYYY-MM-DD. Records whose due date cannot be
parsed are dropped when a date range is active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchRun(cmd.Context())
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "Lower due-date bound (YYYY-MM-DD, inclusive)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "Upper due-date bound (YYYY-MM-DD, inclusive)")
	fetchCmd.Flags().StringSliceVar(&fetchExcludeStatus, "exclude-status", nil, "Status values to exclude (repeatable)")
	fetchCmd.Flags().BoolVar(&fetchNoSave, "no-save", false, "Print the summary without saving a snapshot")
	rootCmd.AddCommand(fetchCmd)
}

func fetchRun(ctx context.Context) error {
	opts := dataset.Options{ExcludedStatus: fetchExcludeStatus}

	var err error
	if opts.From, err = parseDateFlag("--from", fetchFrom); err != nil {
		return err
	}
	if opts.To, err = parseDateFlag("--to", fetchTo); err != nil {
		return err
	}
	opts.From, opts.To = defaultDateRange(opts.From, opts.To, time.Now())

	source, err := newSource()
	if err != nil {
		return err
	}

	ds, err := dataset.NewBuilder(source, ui).Build(ctx, opts)
	if err != nil {
		return err
	}

	stats := dataset.ComputeStats(ds.Records)
	ui.Info("Fetched %d boards, %d items (%d records after filters)",
		ds.BoardCount, ds.ItemCount, len(ds.Records))
	if stats.OverdueCount > 0 || stats.AttentionCount > 0 {
		ui.Info("Urgency: %d %s, %d %s",
			stats.OverdueCount, models.UrgencyOverdue.DisplayName(),
			stats.AttentionCount, models.UrgencyAttention.DisplayName())
	}
	// Warnings were already echoed by the builder as they happened;
	// they travel on the snapshot from here.

	if fetchNoSave {
		return nil
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	snap := &models.Snapshot{
		FetchedAt:  ds.FetchedAt,
		BoardCount: ds.BoardCount,
		ItemCount:  ds.ItemCount,
		Warnings:   ds.Warnings,
	}
	if err := s.SaveSnapshot(ctx, snap, ds.Records); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	ui.Success("Snapshot %s saved (%d records)", snap.ID, len(ds.Records))
	return nil
}

// defaultDateRange completes a half-specified date range: giving only
// one bound means the other defaults to 30 days around today. Both
// zero means no filtering at all.
func defaultDateRange(from, to, now time.Time) (time.Time, time.Time) {
	if from.IsZero() && to.IsZero() {
		return from, to
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from.IsZero() {
		from = today.AddDate(0, 0, -30)
	}
	if to.IsZero() {
		to = today.AddDate(0, 0, 30)
	}
	return from, to
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD)", name, value)
	}
	return t, nil
}
