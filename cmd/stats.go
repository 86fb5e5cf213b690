package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/view"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show model statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("history", false, "Also show the per-epoch history of the last training run")
	statsCmd.Flags().Bool("json", false, "Output as JSON")
}

type statsOutput struct {
	Stats   *facerec.ModelStats      `json:"stats"`
	History *facerec.TrainingHistory `json:"history,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	stats, err := client.ModelStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get model stats: %s", view.ErrorText(err))
	}

	var history *facerec.TrainingHistory
	if mustGetBool(cmd, "history") {
		history, err = client.TrainingHistory(ctx)
		if err != nil {
			return fmt.Errorf("failed to get training history: %s", view.ErrorText(err))
		}
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statsOutput{Stats: stats, History: history})
	}

	printStats(view.NewStatsView(stats))
	if history != nil {
		fmt.Println()
		printHistory(view.NewHistoryView(history))
	}
	return nil
}

func printStats(v view.StatsView) {
	fmt.Printf("Last trained:  %s\n", v.LastTrained)
	fmt.Printf("Accuracy:      %s\n", v.Accuracy)
	fmt.Printf("Total images:  %s\n", v.TotalImages)
	fmt.Printf("Total persons: %s\n", v.TotalPersons)
}

func printHistory(v view.HistoryView) {
	if v.Empty {
		fmt.Println("No training history yet.")
		return
	}
	fmt.Printf("Last run: %s (accuracy %s)\n", v.Timestamp, v.Accuracy)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EPOCH\tACCURACY\tLOSS")
	fmt.Fprintln(w, "-----\t--------\t----")
	for _, row := range v.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\n", row.Epoch, row.Accuracy, row.Loss)
	}
	w.Flush()
}
