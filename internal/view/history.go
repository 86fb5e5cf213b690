package view

import (
	"fmt"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

// EpochRow is one line of the training history table.
type EpochRow struct {
	Epoch    int
	Accuracy string
	Loss     string
}

// HistoryView is the per-epoch table of the last training run.
type HistoryView struct {
	Timestamp string
	Accuracy  string
	Rows      []EpochRow
	Empty     bool
}

// NewHistoryView builds the history table. The series may differ in length;
// missing values render as "-".
func NewHistoryView(h *facerec.TrainingHistory) HistoryView {
	if h == nil {
		return HistoryView{Timestamp: NeverTrained, Empty: true}
	}

	n := max(len(h.History.Accuracy), len(h.History.Loss))
	v := HistoryView{
		Timestamp: FormatTimestamp(h.Timestamp),
		Accuracy:  FormatAccuracy(h.Accuracy),
		Rows:      make([]EpochRow, 0, n),
		Empty:     n == 0,
	}
	for i := range n {
		row := EpochRow{Epoch: i + 1, Accuracy: "-", Loss: "-"}
		if i < len(h.History.Accuracy) {
			row.Accuracy = FormatAccuracy(h.History.Accuracy[i])
		}
		if i < len(h.History.Loss) {
			row.Loss = fmt.Sprintf("%.4f", h.History.Loss[i])
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
