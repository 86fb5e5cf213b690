package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

// NeverTrained is shown when the model has not been trained yet.
const NeverTrained = "Never"

const displayTimeLayout = "2006-01-02 15:04:05"

// lastTrainedLayouts are the timestamp shapes the backend is known to send.
var lastTrainedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	displayTimeLayout,
}

// StatsView is the display form of the model statistics.
type StatsView struct {
	LastTrained  string
	Accuracy     string
	TotalImages  string
	TotalPersons string
	Available    bool
}

// NewStatsView formats model statistics. A nil stats value renders placeholders.
func NewStatsView(stats *facerec.ModelStats) StatsView {
	if stats == nil {
		return StatsView{LastTrained: NeverTrained, Accuracy: "N/A", TotalImages: "-", TotalPersons: "-"}
	}
	return StatsView{
		LastTrained:  FormatTimestamp(stats.LastTrained),
		Accuracy:     FormatAccuracy(stats.Accuracy),
		TotalImages:  strconv.Itoa(stats.TotalImages),
		TotalPersons: strconv.Itoa(stats.TotalPersons),
		Available:    true,
	}
}

// FormatTimestamp renders a backend timestamp as "2006-01-02 15:04:05".
// "Never" and empty values render as "Never"; unknown shapes are returned verbatim.
func FormatTimestamp(raw string) string {
	if raw == "" || raw == NeverTrained {
		return NeverTrained
	}
	for _, layout := range lastTrainedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayTimeLayout)
		}
	}
	return raw
}

// FormatAccuracy renders a 0..1 fraction as a percentage with one decimal.
func FormatAccuracy(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
