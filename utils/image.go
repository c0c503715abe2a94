package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseDataURI splits a "data:<mime>;base64,<data>" payload into its content
// type and decoded bytes.
func ParseDataURI(dataURI string) (string, []byte, error) {
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:") {
		return "", nil, fmt.Errorf("invalid data URI")
	}

	// parts[0] looks like "data:image/jpeg;base64".
	mediaType := strings.TrimPrefix(parts[0], "data:")
	contentType := strings.SplitN(mediaType, ";", 2)[0]
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	return contentType, data, nil
}
