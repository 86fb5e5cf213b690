package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/logging"
)

var (
	captureDir string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "facedesk",
	Short: "Web front end and CLI for a face recognition service",
	Long: `Facedesk talks to a face recognition backend. It serves a browser UI for
managing enrolled persons, previewing uploads, recognizing faces and
monitoring model training, and offers the same operations on the command line.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (env: FACEDESK_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
	if configPath == "" {
		configPath = os.Getenv("FACEDESK_CONFIG")
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if captureDir != "" {
		cfg.Backend.CaptureDir = captureDir
	}
	return cfg, nil
}

func setupLogging(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level)
	return nil
}

// newBackendClient creates the backend client described by the config.
func newBackendClient(cfg *config.Config) (*facerec.Client, error) {
	client, err := facerec.NewClientWithCapture(cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.CaptureDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}

// loadClient is the common prologue of commands that talk to the backend.
func loadClient() (*config.Config, *facerec.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := newBackendClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}
