package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/view"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Manage enrolled persons",
}

var personCreateCmd = &cobra.Command{
	Use:   "create <name> <image>...",
	Short: "Enroll a new person with reference images",
	Long: `Enroll a new person. Every file is checked by content; files that are not
JPEG or PNG images are reported and skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPersonCreate,
}

var personRenameCmd = &cobra.Command{
	Use:   "rename <person-id> <name>",
	Short: "Change the name of a person",
	Args:  cobra.ExactArgs(2),
	RunE:  runPersonRename,
}

var personAddImagesCmd = &cobra.Command{
	Use:   "add-images <person-id> <image>...",
	Short: "Add reference images to an existing person",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPersonAddImages,
}

var personDeleteCmd = &cobra.Command{
	Use:   "delete <person-id>",
	Short: "Delete a person and all of their images",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonDelete,
}

func init() {
	rootCmd.AddCommand(personCmd)
	personCmd.AddCommand(personCreateCmd, personRenameCmd, personAddImagesCmd, personDeleteCmd)

	personDeleteCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

// readImages loads the given files into a batch and prints a notice per rejected file.
func readImages(paths []string, previewSize int) (*upload.Batch, error) {
	batch := upload.NewBatch(previewSize)

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Reading images"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)
	for _, path := range paths {
		bar.Describe(filepath.Base(path))
		if err := batch.AddPath(path); err != nil {
			_ = bar.Finish()
			return nil, err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	for _, notice := range batch.Notices() {
		fmt.Printf("Skipped %s\n", notice)
	}
	if !batch.SubmitEnabled() {
		if len(batch.Rejections) > 0 {
			return nil, errors.New(upload.RejectionMessage)
		}
		return nil, errors.New("please select at least one image")
	}
	return batch, nil
}

func runPersonCreate(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	update, err := facerec.NewNameUpdate(args[0])
	if err != nil {
		return err
	}

	batch, err := readImages(args[1:], cfg.Upload.PreviewSize)
	if err != nil {
		return err
	}

	fmt.Printf("Uploading %d image(s), %d bytes, for %s...\n", len(batch.Files), batch.Size(), update.Name)
	if err := client.CreatePerson(cmd.Context(), update.Name, batch.UploadFiles()); err != nil {
		return fmt.Errorf("failed to add person: %s", view.ErrorText(err))
	}
	fmt.Println("Person added successfully!")
	return nil
}

func runPersonRename(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	id, err := parseID("person", args[0])
	if err != nil {
		return err
	}
	update, err := facerec.NewNameUpdate(args[1])
	if err != nil {
		return err
	}

	if err := client.UpdatePersonName(cmd.Context(), id, update.Name); err != nil {
		return fmt.Errorf("error updating name: %s", view.ErrorText(err))
	}
	fmt.Printf("Person %d renamed to %s\n", id, update.Name)
	return nil
}

func runPersonAddImages(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	id, err := parseID("person", args[0])
	if err != nil {
		return err
	}
	batch, err := readImages(args[1:], cfg.Upload.PreviewSize)
	if err != nil {
		return err
	}

	if err := client.AddPersonImages(cmd.Context(), id, batch.UploadFiles()); err != nil {
		return fmt.Errorf("error uploading images: %s", view.ErrorText(err))
	}
	fmt.Printf("Added %d image(s) to person %d\n", len(batch.Files), id)
	return nil
}

func runPersonDelete(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	id, err := parseID("person", args[0])
	if err != nil {
		return err
	}

	if !mustGetBool(cmd, "yes") && !confirmAction(cmd, fmt.Sprintf("Delete person %d and all of their images? [y/N]: ", id)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}

	if err := client.DeletePerson(cmd.Context(), id); err != nil {
		return fmt.Errorf("error deleting person: %s", view.ErrorText(err))
	}
	fmt.Printf("Person %d deleted\n", id)
	return nil
}
