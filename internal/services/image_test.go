package services

import (
	"strings"
	"testing"

	"eventease/internal/models"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		upload  *ImageUpload
		wantErr bool
	}{
		{"nil upload is fine", nil, false},
		{"jpeg", &ImageUpload{Reader: strings.NewReader("x"), ContentType: "image/jpeg", Size: 1024}, false},
		{"webp", &ImageUpload{Reader: strings.NewReader("x"), ContentType: "image/webp", Size: 1024}, false},
		{"at the size limit", &ImageUpload{Reader: strings.NewReader("x"), ContentType: "image/png", Size: MaxImageSize}, false},
		{"over the size limit", &ImageUpload{Reader: strings.NewReader("x"), ContentType: "image/png", Size: MaxImageSize + 1}, true},
		{"empty file", &ImageUpload{Reader: strings.NewReader(""), ContentType: "image/png", Size: 0}, true},
		{"svg rejected", &ImageUpload{Reader: strings.NewReader("x"), ContentType: "image/svg+xml", Size: 1024}, true},
		{"pdf rejected", &ImageUpload{Reader: strings.NewReader("x"), ContentType: "application/pdf", Size: 1024}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.upload)
			if tt.wantErr {
				if !models.IsValidationError(err) {
					t.Errorf("ValidateImage() = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateImage() = %v, want nil", err)
			}
		})
	}
}

func TestImageKeyCarriesExtension(t *testing.T) {
	key := ImageKey("42", "image/png")
	if !strings.HasPrefix(key, "events/42/") {
		t.Errorf("key %q should be scoped under events/42/", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q should end in .png", key)
	}

	if ImageKey("42", "image/png") == key {
		t.Error("keys must be unique per upload")
	}
}
