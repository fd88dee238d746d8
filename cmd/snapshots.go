package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bucoapprove/mondash/internal/output"
)

var snapshotsLimit int

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotsListRun(cmd.Context())
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot and its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotsDeleteRun(cmd.Context(), args[0])
	},
}

func init() {
	snapshotsCmd.Flags().IntVar(&snapshotsLimit, "limit", 20, "Maximum snapshots to list (0 = all)")
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func snapshotsListRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	snaps, err := s.ListSnapshots(ctx, snapshotsLimit)
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		ui.Info("No snapshots stored. Run 'mondash fetch' to create one.")
		return nil
	}

	table := ui.Table([]string{"ID", "Fetched", "Boards", "Items", "Warnings"})
	for _, snap := range snaps {
		warnings := "-"
		if n := len(snap.Warnings); n > 0 {
			warnings = output.Yellow(fmt.Sprintf("%d", n))
		}
		table.Append([]string{
			output.Cyan(snap.ID),
			snap.FetchedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", snap.BoardCount),
			fmt.Sprintf("%d", snap.ItemCount),
			warnings,
		})
	}
	table.Render()
	return nil
}

func snapshotsDeleteRun(ctx context.Context, id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if _, err := s.GetSnapshot(ctx, id); err != nil {
		return err
	}
	if err := s.DeleteSnapshot(ctx, id); err != nil {
		return err
	}

	ui.Success("Snapshot %s deleted", id)
	return nil
}
