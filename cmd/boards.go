package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/normalize"
	"github.com/bucoapprove/mondash/internal/output"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List Monday.com boards with their resolved role columns",
	Long: `List all accessible boards and show which column was picked for
each role (status, date, person). Useful for checking why a board's
items come back with "No status" or "No date".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return boardsRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func boardsRun(ctx context.Context) error {
	source, err := newSource()
	if err != nil {
		return err
	}

	boards, err := source.ListBoards(ctx)
	if err != nil {
		return err
	}

	if len(boards) == 0 {
		ui.Info("No boards accessible with this token.")
		return nil
	}

	table := ui.Table([]string{"ID", "Board", "Groups", "Items", "Status Col", "Date Col", "Person Col"})
	for _, b := range boards {
		roles := normalize.ResolveRoles(b.Columns)
		table.Append([]string{
			b.ID,
			output.Cyan(b.Name),
			fmt.Sprintf("%d", len(b.Groups)),
			fmt.Sprintf("%d", b.ItemsCount),
			columnTitle(b, roles.StatusID),
			columnTitle(b, roles.DateID),
			columnTitle(b, roles.PersonID),
		})
	}
	table.Render()
	return nil
}

// columnTitle renders a resolved role column as "Title (id)", or a red
// marker when the board has no column for the role.
func columnTitle(b models.Board, id string) string {
	if id == "" {
		return output.Red("(none)")
	}
	for _, c := range b.Columns {
		if c.ID == id {
			return fmt.Sprintf("%s (%s)", c.Title, c.ID)
		}
	}
	return id
}
