package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/view"
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "List enrolled persons",
	Long: `List all persons enrolled in the recognition backend in server order.
Use --filter to match names case- and diacritics-insensitively.`,
	Args: cobra.NoArgs,
	RunE: runPersons,
}

func init() {
	rootCmd.AddCommand(personsCmd)

	personsCmd.Flags().String("filter", "", "Only show persons whose name contains this text")
	personsCmd.Flags().Bool("images", false, "List the reference images of every person")
	personsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runPersons(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	filter := mustGetString(cmd, "filter")

	persons, err := client.GetPersons(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get persons: %w", err)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view.FilterPersons(persons, filter))
	}

	roster := view.NewRoster(persons, filter, nil)
	if roster.Empty {
		fmt.Println(roster.EmptyTitle)
		fmt.Println(roster.EmptyHint)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tIMAGES\tCREATED")
	fmt.Fprintln(w, "--\t----\t------\t-------")
	for _, card := range roster.Cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", card.ID, card.Name, card.ImageCount, card.CreatedAt)
	}
	w.Flush()

	if mustGetBool(cmd, "images") {
		for _, card := range roster.Cards {
			fmt.Printf("\n%s:\n", card.Name)
			for _, img := range card.Images {
				fmt.Printf("  %d  %s\n", img.ID, cfg.Backend.ImageLink(img.Src, img.Src))
			}
		}
	}

	if filter != "" {
		fmt.Printf("\nShowing %d of %d person(s)\n", len(roster.Cards), roster.Total)
	}
	return nil
}
