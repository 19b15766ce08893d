package media

import (
	"mime"
	"strings"

	"github.com/WillSeigler/Bookd/internal/apperr"
)

const (
	MaxImageSize   = 8 << 20
	MaxVideoSize   = 75 << 20
	MaxProfileSize = 5 << 20
)

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	allowedVideoTypes = map[string]bool{
		"video/mp4":       true,
		"video/webm":      true,
		"video/mov":       true,
		"video/avi":       true,
		"video/quicktime": true,
		"video/x-msvideo": true,
	}
)

func normalizeType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func IsImage(contentType string) bool { return strings.HasPrefix(normalizeType(contentType), "image/") }
func IsVideo(contentType string) bool { return strings.HasPrefix(normalizeType(contentType), "video/") }

// Validate checks a post attachment locally. The returned error is an
// *apperr.ValidationError carrying a user-facing reason.
func Validate(f File) error {
	ct := normalizeType(f.ContentType)
	image, video := IsImage(ct), IsVideo(ct)

	switch {
	case !image && !video:
		return reject("Please select an image or video file")
	case image && !allowedImageTypes[ct]:
		return reject("Image must be JPEG, PNG, or WebP")
	case video && !allowedVideoTypes[ct]:
		return reject("Video must be MP4, WebM, MOV, or AVI")
	case image && f.Size > MaxImageSize:
		return reject("File must be smaller than 8MB")
	case video && f.Size > MaxVideoSize:
		return reject("File must be smaller than 75MB")
	}
	return nil
}

// ValidateProfilePicture applies the stricter avatar rules.
func ValidateProfilePicture(f File) error {
	ct := normalizeType(f.ContentType)
	switch {
	case !IsImage(ct):
		return reject("File must be an image")
	case !allowedImageTypes[ct]:
		return reject("Please select a JPEG, PNG, or WebP image")
	case f.Size > MaxProfileSize:
		return reject("Image must be smaller than 5MB")
	}
	return nil
}

func reject(reason string) error {
	return &apperr.ValidationError{Field: "file", Reason: reason}
}
