package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Thumbnail decodes an image and scales it to fit within maxEdge on both sides
// while keeping the aspect ratio. PNG input stays PNG, everything else is JPEG.
func Thumbnail(data []byte, contentType string, maxEdge int) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var out image.Image = img
	if maxEdge > 0 && (width > maxEdge || height > maxEdge) {
		newWidth, newHeight := maxEdge, maxEdge
		if width > height {
			newHeight = max(1, int(float64(height)*float64(maxEdge)/float64(width)))
		} else {
			newWidth = max(1, int(float64(width)*float64(maxEdge)/float64(height)))
		}
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if contentType == "image/png" {
		if err := png.Encode(&buf, out); err != nil {
			return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// PreviewURL returns a data URL showing the image. It is a thumbnail when the
// image decodes and the raw bytes otherwise.
func PreviewURL(data []byte, contentType string, maxEdge int) string {
	if thumb, thumbType, err := Thumbnail(data, contentType, maxEdge); err == nil {
		return dataURL(thumbType, thumb)
	}
	return dataURL(contentType, data)
}

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
