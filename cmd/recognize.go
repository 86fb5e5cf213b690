package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/view"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image>",
	Short: "Find the enrolled person that best matches a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // user-provided image path
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	contentType := upload.DetectContentType("", data)
	if contentType == "" {
		return errors.New(upload.RejectionMessage)
	}

	result, err := client.Recognize(cmd.Context(), facerec.UploadFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return errors.New(view.RecognitionFailure(err).Message)
	}

	v := view.NewRecognitionView(*result, nil)
	fmt.Printf("Recognized Person: %s\n", v.Name)
	fmt.Printf("Confidence:        %s\n", v.ConfidenceLabel)
	if v.ImageURL != "" {
		fmt.Printf("Matched image:     %s\n", cfg.Backend.ImageLink(v.ImageURL, v.ImageURL))
	}
	return nil
}
