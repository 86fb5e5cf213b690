package view

import (
	"fmt"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

// RecognitionView is the content of the recognition result modal.
type RecognitionView struct {
	ImageURL        string
	Name            string
	Confidence      float64 // clamped to 0..100
	ConfidenceLabel string
	BarWidth        string
}

// NewRecognitionView builds the modal from a recognition result.
// src rewrites the server relative image URL; it may be nil.
func NewRecognitionView(r facerec.RecognitionResult, src ImageSource) RecognitionView {
	confidence := ClampPercent(r.Confidence)
	imageURL := r.ImageURL
	if src != nil && imageURL != "" {
		imageURL = src(imageURL)
	}
	return RecognitionView{
		ImageURL:        imageURL,
		Name:            r.Name,
		Confidence:      confidence,
		ConfidenceLabel: fmt.Sprintf("%.1f%%", confidence),
		BarWidth:        fmt.Sprintf("%.1f", confidence),
	}
}

// ClampPercent limits a percentage to 0..100.
func ClampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// RecognitionFailure is the alert shown when recognition fails.
func RecognitionFailure(err error) Alert {
	return Failure("Recognition failed", err)
}
