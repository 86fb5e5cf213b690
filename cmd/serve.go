package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/metrics"
	"github.com/kozaktomas/facedesk/internal/training"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/web"
)

// stageSweepInterval is how often expired upload selections are dropped.
const stageSweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Facedesk web server.
The web server provides a browser-based interface for enrolling persons,
recognizing faces and training the recognition model.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to (overrides WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}

	m := metrics.New()
	client.SetObserver(m.ObserveBackend)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stage := upload.NewStage(cfg.Upload.StageTTL)
	go stage.Run(ctx, stageSweepInterval)

	server, err := web.NewServer(cfg, web.Deps{
		Client:  client,
		Monitor: training.NewMonitor(client),
		Stage:   stage,
		Metrics: m,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during shutdown", "error", err)
		}
	}()

	fmt.Printf("Starting Facedesk on http://%s:%d (backend %s)\n", cfg.Web.Host, cfg.Web.Port, cfg.Backend.URL)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	<-shutdownDone
	return nil
}
