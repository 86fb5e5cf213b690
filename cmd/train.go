package cmd

import (
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/facedesk/internal/constants"
	"github.com/kozaktomas/facedesk/internal/training"
	"github.com/kozaktomas/facedesk/internal/view"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the recognition model",
	Long: `Start a training run on the backend and follow its progress until it
completes or fails. With --no-wait the command returns once the run has started.`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Bool("no-wait", false, "Return as soon as training has started")
}

type waitResult struct {
	snap training.Snapshot
	err  error
}

func runTrain(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	monitor := training.NewMonitor(client)
	defer monitor.Close()

	events, unsubscribe := monitor.Subscribe()
	defer unsubscribe()

	if err := monitor.Start(ctx); err != nil {
		return err
	}
	if mustGetBool(cmd, "no-wait") {
		fmt.Println("Training started.")
		return nil
	}

	bar := progressbar.NewOptions(constants.ProgressComplete,
		progressbar.OptionSetDescription(training.MessageStarting),
		progressbar.OptionSetItsString("%"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	// events may be dropped for slow readers, Wait always sees the end of the run
	done := make(chan waitResult, 1)
	go func() {
		snap, err := monitor.Wait(ctx)
		done <- waitResult{snap: snap, err: err}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			updateBar(bar, ev.Snapshot)
		case res := <-done:
			if res.err != nil {
				return res.err
			}
			updateBar(bar, res.snap)
			if res.snap.State == training.StateCompleted {
				_ = bar.Finish()
			}
			fmt.Println()
			return reportRun(res.snap)
		}
	}
}

func updateBar(bar *progressbar.ProgressBar, s training.Snapshot) {
	v := view.NewProgressView(s)
	desc := v.Message
	if v.Epoch != "" {
		desc += " (" + v.Epoch + ")"
	}
	bar.Describe(desc)
	_ = bar.Set(v.Percent)
}

// reportRun prints the outcome of a finished run. A failed run is an error.
func reportRun(s training.Snapshot) error {
	v := view.NewProgressView(s)
	if v.Failed {
		return errors.New(v.Message)
	}

	fmt.Println(v.Message)
	if v.StatsError != "" {
		fmt.Printf("Warning: could not load model stats: %s\n", v.StatsError)
		return nil
	}
	fmt.Println()
	printStats(v.Stats)
	return nil
}
