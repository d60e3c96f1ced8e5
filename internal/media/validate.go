package media

import (
	"fmt"

	"social-service/internal/shared/httpx"
)

// MaxUploadSize is the payload ceiling, checked after the full read and
// before any relay call.
const MaxUploadSize = 10 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
}

// Kind classifies a content type for the relay's upload verb.
func Kind(contentType string) string {
	if len(contentType) > 6 && contentType[:6] == "image/" {
		return "image"
	}
	return "video"
}

// ValidateFile rejects payloads outside the type allow-list or over the
// size ceiling. Errors wrap httpx.ErrInvalid and map to 400.
func ValidateFile(filename, contentType string, size int) error {
	if filename == "" {
		return fmt.Errorf("%w: missing file", httpx.ErrInvalid)
	}
	if !allowedTypes[contentType] {
		return fmt.Errorf("%w: unsupported content type %q", httpx.ErrInvalid, contentType)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: file %s exceeds %d bytes", httpx.ErrInvalid, filename, MaxUploadSize)
	}
	if size == 0 {
		return fmt.Errorf("%w: file %s is empty", httpx.ErrInvalid, filename)
	}
	return nil
}
