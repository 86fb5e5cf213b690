// Package upload validates image uploads, builds their previews and stages
// them until they are submitted to the backend.
package upload

import (
	"net/http"
	"strings"
)

// RejectionMessage is appended to the file name of every rejected file.
const RejectionMessage = "Please upload only image files (JPEG, PNG)"

var acceptedTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
}

// AcceptedTypes returns the canonical accepted MIME types.
func AcceptedTypes() []string {
	return []string{"image/jpeg", "image/png"}
}

// IsAcceptedType reports whether a MIME type is one of the accepted image types.
func IsAcceptedType(contentType string) bool {
	_, ok := acceptedTypes[baseType(contentType)]
	return ok
}

// DetectContentType returns the canonical accepted type of a file, or "" when
// the file is not an accepted image. The declared type wins when it is
// specific; missing or generic declarations fall back to content sniffing.
func DetectContentType(declared string, data []byte) string {
	declared = baseType(declared)
	if declared != "" && declared != "application/octet-stream" {
		return acceptedTypes[declared]
	}
	return acceptedTypes[baseType(http.DetectContentType(data))]
}

// baseType strips parameters and normalizes case of a MIME type.
func baseType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}
