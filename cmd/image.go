package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/view"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage reference images",
}

var imageDeleteCmd = &cobra.Command{
	Use:   "delete <image-id>",
	Short: "Delete a single reference image",
	Args:  cobra.ExactArgs(1),
	RunE:  runImageDelete,
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageDeleteCmd)

	imageDeleteCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

func runImageDelete(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	id, err := parseID("image", args[0])
	if err != nil {
		return err
	}

	if !mustGetBool(cmd, "yes") && !confirmAction(cmd, fmt.Sprintf("Delete image %d? [y/N]: ", id)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}

	if err := client.DeleteImage(cmd.Context(), id); err != nil {
		return fmt.Errorf("error deleting image: %s", view.ErrorText(err))
	}
	fmt.Printf("Image %d deleted\n", id)
	return nil
}
