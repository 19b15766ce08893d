package cloudinary

import "errors"

// Kind discriminates upload failures so callers never match on messages.
type Kind string

const (
	KindPresetNotFound  Kind = "preset_not_found"
	KindRejected        Kind = "rejected"
	KindNetwork         Kind = "network"
	KindTimeout         Kind = "timeout"
	KindInvalidResponse Kind = "invalid_response"
	KindNotConfigured   Kind = "not_configured"
)

// UploadError is returned for every failed upload attempt.
type UploadError struct {
	Kind    Kind
	Message string
	// Status is the HTTP status of a rejection, zero otherwise.
	Status int
	// Presets lists every preset tried when all of them were missing.
	Presets []string
}

func (e *UploadError) Error() string {
	return e.Message
}

// KindOf returns the Kind of err, or "" when err is not an *UploadError.
func KindOf(err error) Kind {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}
