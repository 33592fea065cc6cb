package media

import (
	"strings"

	"github.com/kdduha/reels-caption/internal/models"
)

const (
	KindImage = "image"
	KindVideo = "video"

	DefaultMaxFileSize int64 = 150 << 20
)

// Validator rejects files by declared metadata before any bytes are read.
type Validator struct {
	maxFileSize int64
}

func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{maxFileSize: maxFileSize}
}

func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

func (v *Validator) Validate(file models.MediaFile) error {
	if Kind(file.MimeType) == "" {
		return models.NewError(models.KindInvalidInput, nil,
			"unsupported type %q: upload an image or video", file.MimeType)
	}
	if file.Size > v.maxFileSize {
		return models.NewError(models.KindInvalidInput, nil,
			"file too large: maximum size is %dMB", v.maxFileSize>>20)
	}
	return nil
}

// Kind maps a declared MIME type to image or video, or "" for anything else.
func Kind(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	}
	return ""
}
