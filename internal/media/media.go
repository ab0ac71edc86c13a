package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidImage is returned when an encoded image cannot be decoded.
var ErrInvalidImage = errors.New("invalid image payload")

// Object describes a stored media object.
type Object struct {
	Key string
	URL string
}

// Uploader stores product images on a media host.
type Uploader interface {
	Upload(ctx context.Context, folder string, data []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// DecodeImage accepts either a data URL (data:image/png;base64,...) or a bare
// base64 string and returns the bytes with their content type.
func DecodeImage(encoded string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, "", ErrInvalidImage
	}

	contentType := ""
	payload := encoded
	if strings.HasPrefix(encoded, "data:") {
		header, body, ok := strings.Cut(encoded, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidImage
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidImage
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
