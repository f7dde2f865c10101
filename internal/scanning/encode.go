package scanning

import (
	"encoding/base64"
	"strings"
)

// defaultMediaType is used when an upload carries no content type
const defaultMediaType = "image/jpeg"

// EncodeImage converts raw upload bytes into standard base64 text. No size or
// format validation happens here; the bytes are passed through as uploaded.
func EncodeImage(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}

// normalizeMediaType lowercases and trims a declared media type, defaulting to JPEG
func normalizeMediaType(mediaType string) string {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "" {
		return defaultMediaType
	}
	return mediaType
}
