package services

import (
	"fmt"
	"io"
	"path"

	"eventease/internal/models"

	"github.com/google/uuid"
)

// MaxImageSize is the upload limit for event images (5 MB).
const MaxImageSize = 5 * 1024 * 1024

// allowedImageTypes maps accepted MIME types to the file extension used
// for the storage key.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageUpload describes an image attached to a create or update request.
// Validation happens before any storage round trip.
type ImageUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

// ValidateImage checks the MIME type and size limits of an upload. It is
// called before the storage client is touched so a bad file never costs a
// network call.
func ValidateImage(upload *ImageUpload) error {
	if upload == nil {
		return nil
	}
	if _, ok := allowedImageTypes[upload.ContentType]; !ok {
		return models.NewValidationError("image", fmt.Sprintf("unsupported image type %q; allowed: JPEG, PNG, WebP, GIF", upload.ContentType))
	}
	if upload.Size > MaxImageSize {
		return models.NewValidationError("image", "image must be 5 MB or smaller")
	}
	if upload.Size <= 0 {
		return models.NewValidationError("image", "image is empty")
	}
	return nil
}

// ImageKey builds a unique storage key for an event image.
func ImageKey(eventScope string, contentType string) string {
	ext := allowedImageTypes[contentType]
	return path.Join("events", eventScope, uuid.NewString()+ext)
}
