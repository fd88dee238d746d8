package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bucoapprove/mondash/internal/llm"
	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/store"
)

var summarizeSnapshot string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "AI summary of overdue and soon-due items",
	Long: `Send the urgent subset of a snapshot (overdue and attention items)
to the Anthropic API and print a short natural-language summary.

Requires anthropic.api_key in the config or ANTHROPIC_API_KEY in the
environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return summarizeRun(cmd.Context())
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeSnapshot, "snapshot", "", "Snapshot id (default: latest)")
	rootCmd.AddCommand(summarizeCmd)
}

func summarizeRun(ctx context.Context) error {
	client := newLLMClient()
	if client == nil {
		return fmt.Errorf("no Anthropic API key configured (set anthropic.api_key or ANTHROPIC_API_KEY)")
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	snap, err := resolveSnapshotArg(ctx, s, summarizeSnapshot)
	if err != nil {
		return err
	}

	urgent, err := urgentRecords(ctx, s, snap.ID)
	if err != nil {
		return err
	}

	ui.VerboseLog("Summarizing %d urgent records from snapshot %s", len(urgent), snap.ID)

	summary, err := client.SummarizeUrgent(ctx, urgent)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Fprintln(ui.Out, summary)
	return nil
}

// newLLMClient builds the Anthropic client from config, falling back
// to the conventional environment variable. Returns nil when no key is
// configured anywhere.
func newLLMClient() *llm.Client {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil
	}
	return llm.NewClient(apiKey, viper.GetString("anthropic.model"))
}

// urgentRecords returns the overdue plus attention records of a snapshot.
func urgentRecords(ctx context.Context, s store.Store, snapshotID string) ([]models.Record, error) {
	var urgent []models.Record
	for _, u := range []models.Urgency{models.UrgencyOverdue, models.UrgencyAttention} {
		records, err := s.ListRecords(ctx, snapshotID, store.RecordFilter{Urgency: &u})
		if err != nil {
			return nil, err
		}
		urgent = append(urgent, records...)
	}
	return urgent, nil
}
