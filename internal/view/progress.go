package view

import (
	"fmt"

	"github.com/kozaktomas/facedesk/internal/training"
)

// ProgressView is the display form of the training monitor.
type ProgressView struct {
	RunID        string
	State        string
	Percent      int
	Message      string
	Epoch        string
	Accuracy     string
	Running      bool
	Completed    bool
	Failed       bool
	StartEnabled bool
	Stats        StatsView
	StatsError   string
}

// NewProgressView maps a monitor snapshot to its view.
func NewProgressView(s training.Snapshot) ProgressView {
	v := ProgressView{
		RunID:        s.RunID,
		State:        string(s.State),
		Percent:      min(max(s.Progress, 0), 100),
		Message:      s.Message,
		Running:      s.Running(),
		Completed:    s.State == training.StateCompleted,
		Failed:       s.State == training.StateFailed,
		StartEnabled: s.StartEnabled,
		Stats:        NewStatsView(s.Stats),
		StatsError:   s.StatsError,
	}
	if s.TotalEpochs > 0 {
		v.Epoch = fmt.Sprintf("Epoch %d/%d", s.CurrentEpoch, s.TotalEpochs)
	}
	if s.CurrentAccuracy > 0 || s.BestAccuracy > 0 {
		v.Accuracy = fmt.Sprintf("accuracy %s (best %s)", FormatAccuracy(s.CurrentAccuracy), FormatAccuracy(s.BestAccuracy))
	}
	return v
}

// Alert returns the banner announcing the end of a run, if the run has ended.
func (v ProgressView) Alert() (Alert, bool) {
	switch {
	case v.Completed:
		return Success(v.Message), true
	case v.Failed:
		return Danger(v.Message), true
	default:
		return Alert{}, false
	}
}
